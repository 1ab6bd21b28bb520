// Package history records finished conversions in a local SQLite database so
// the history command can show what was produced, when, and at what size.
package history
