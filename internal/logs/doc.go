// Package logs reads the daemon's run logs back out for the CLI: the last N
// lines of the current run, or a polling follow that picks up lines as the
// detached process writes them. The daemon only ever appends, so a byte
// offset is enough cursor state between polls.
package logs
