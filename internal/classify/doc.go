// Package classify implements the pure classification rules for discovered
// links: how a link's domain relates to the crawl's base domain, and what
// kind of resource the link points at.
//
// Everything in this package is a function of its inputs. No I/O happens
// here, which keeps the rules trivially testable and lets the extractor call
// them for every candidate link without coordination.
package classify
