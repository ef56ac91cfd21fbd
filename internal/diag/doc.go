// Package diag defines the diagnostic model shared by the lexer, the grammar
// and the lowering passes.
//
// Diagnostic is the central record: a Severity (Info, Warning, Error), a
// stable numeric Code rendered as LEX/SYN/LOW/LNT/IO/PRJ ids, a short
// Message, the Primary span, optional Notes and optional Fix suggestions.
//
// Producers either build Diagnostic values directly (the lowering passes
// keep them in their own accumulators) or emit through a Reporter
// (the lexer and grammar). BagReporter collects into a Bag, which supports
// sorting, deduplication and filtering.
//
// Package diag performs no formatting or IO; rendering lives in
// internal/diagfmt.
package diag
