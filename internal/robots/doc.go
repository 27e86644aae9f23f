// Package robots answers whether a URL may be crawled under the target
// site's robots.txt. Rules are fetched once per host and cached with a TTL;
// any failure to obtain or parse them fails open, treating the host as
// unrestricted rather than blocking the crawl.
package robots
