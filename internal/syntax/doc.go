// Package syntax holds the generic parse tree produced by the grammar:
// rule-tagged nodes with ordered children and byte ranges. Lowering reads
// these trees; it never builds or mutates them.
package syntax
