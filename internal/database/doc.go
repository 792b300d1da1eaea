// Package database provides SQLite-based storage of the conversion history.
//
// Every conversion, successful or not, is recorded with the SHA3-256 digest
// of the source file, how the file was read (encoding, delimiter, header
// row) and what was produced. The history answers "was this download
// already converted, and into which report?" without keeping the
// policyholder data itself: only counts and names are stored.
//
// The database is a single file (modernc.org/sqlite, no cgo) in WAL mode.
package database
