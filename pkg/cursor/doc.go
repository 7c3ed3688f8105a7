// Package cursor provides bounds-checked frame navigation with cyclic
// stepping and timed auto-advance.
//
// Mutating operations report whether the index actually changed, and an
// optional [ChangeFunc] is called after each change so the host decides how
// to propagate it.
package cursor
