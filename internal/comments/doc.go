// Package comments extracts developer comments from page markup and inline
// JavaScript using regular expression scans.
//
// Design decision: comments are scanned with regular expressions rather than
// a parser because:
// 1. HTML comments survive in the raw markup even when the DOM parser
//    normalizes or drops them
// 2. Script bodies are plain text to the DOM anyway
// 3. The same scanner works on fragments, full pages, and script bodies
//
// The cost is a known imprecision: "//" inside string literals or URLs is
// reported as a single-line comment. Callers filter by type and length to
// trim that noise.
package comments
