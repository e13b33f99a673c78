// Package sqlite implements the DocumentStore port on SQLite.
//
// One database file holds the document manifest, the chunk rows, and an
// FTS5 index mirroring the chunk text. The mirror is maintained
// synchronously: every transaction that mutates chunks carries its own
// index inserts and deletes, so a query issued after ingestion commits
// never observes a stale index.
package sqlite
