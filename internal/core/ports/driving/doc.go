// Package driving provides interfaces for inbound adapters
// (primary ports). The CLI, TUI, and MCP server all drive the core
// through these interfaces.
package driving
