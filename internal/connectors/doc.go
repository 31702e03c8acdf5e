// Package connectors provides document sources for batch ingestion.
// A connector discovers files, loads them as raw documents and can
// report changes as they happen.
package connectors
