// Package driving defines the inbound ports (driving adapters) for the
// corpus tool.
//
// Driving ports are the use-case interfaces the CLI invokes: batch
// ingestion, work linking, and ranked retrieval. Core services implement
// them.
package driving
