// Package lower converts grammar-produced syntax trees into typed AST values.
//
// Every lowering returns a Result: an optional value plus the warnings and
// errors collected while producing it. Callers merge a sub-result into their
// own accumulators with Check or CheckOr and decide locally what to do when
// the value is absent: skip the item, substitute a placeholder, or give up.
// Diagnostics are never dropped and never raised; a tree shape the grammar
// cannot produce is a programming error and panics with *InvariantViolation.
package lower
