// Package services implements the application's use cases: ingesting
// source files into the store, linking multi-volume works, and planning
// full-text queries. Services depend only on the port interfaces, never
// on concrete adapters.
package services
