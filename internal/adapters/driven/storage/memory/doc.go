// Package memory provides an in-memory implementation of the document
// store port. It backs service tests; the SQLite adapter is the real
// store. Search is a plain token matcher, not a ranked full-text
// engine, so ordering is insertion order.
package memory
