// Package search finds exact byte sequences in a source and renders bytes as
// a classic hex dump.
//
// Patterns are hex strings; whitespace is ignored so "48 65 6C 6C 6F" and
// "48656c6c6f" are the same pattern. Matches may overlap.
package search
