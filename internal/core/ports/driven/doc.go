// Package driven defines the outbound ports (driven adapters) for the
// corpus tool.
//
// Driven ports are interfaces the core services depend on, implemented
// by infrastructure adapters: the SQLite store, format extractors, and
// the config store. Services own the interfaces; adapters satisfy them.
package driven
