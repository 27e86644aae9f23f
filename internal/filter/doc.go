// Package filter narrows crawl link sets by scope, file extension, link
// type, and uniqueness.
//
// Stages always run in the same order regardless of which command built
// them: scope, extension, type, uniqueness. Every stage is pure and
// order-preserving, so filtering the same links twice yields the same
// result.
//
// The type stage accepts group tokens (images, documents, media, pages,
// files, code, api) as well as literal type names. Tokens that match
// neither are still checked against the URL text, which lets an extension
// spelled as a type token ("pdf") select links by URL suffix.
package filter
