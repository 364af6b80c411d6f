// Package sinkerror classifies failures reported by output sinks. It lets the
// CLI explain why writing fragments stopped without string matching spread
// throughout the codebase.
package sinkerror
