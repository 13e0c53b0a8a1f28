// Package fsutil provides file-system helpers shared across the CLI:
// path expansion, guarded file writing, and whole-file copying.
package fsutil
