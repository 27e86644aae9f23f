// Package database provides SQLite-based storage for crawl snapshots.
//
// This package implements the Archive, which stores:
//   - One snapshot per completed crawl, with the full result as JSON
//   - Per-domain history metadata for cheap listings
//
// Snapshots of the same domain can be compared to report added and
// removed links between runs.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
