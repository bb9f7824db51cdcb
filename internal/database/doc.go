// Package database provides SQLite-based run history for wikicat.
//
// HistoryDB stores:
//   - one row per crawl run: start URL, output path, limit, counts and
//     why the run stopped
//   - one row per listing page visited during a run, with the status code,
//     the SHA3-256 hash of the body and the number of records it held
//
// Page hashes make idempotence observable: two runs against an unchanged
// listing record the same hash sequence.
//
// SQLite comes from modernc.org/sqlite, a CGO-free driver, so the binary
// stays statically linked. The database file lives in the XDG data
// directory unless configured otherwise.
package database
