package lower

import "keel/internal/diag"

// Result is the outcome of one lowering. Value is meaningful only when OK.
// A successful Result may still carry errors describing parts of the value
// that were replaced or dropped.
type Result[T any] struct {
	Value    T
	OK       bool
	Warnings []diag.Diagnostic
	Errors   []diag.Diagnostic
}

// Ok wraps a produced value with the diagnostics gathered along the way.
func Ok[T any](value T, warnings, errors []diag.Diagnostic) Result[T] {
	return Result[T]{Value: value, OK: true, Warnings: warnings, Errors: errors}
}

// Err reports that no value could be produced.
func Err[T any](warnings, errors []diag.Diagnostic) Result[T] {
	return Result[T]{Warnings: warnings, Errors: errors}
}

// Diagnostics returns warnings followed by errors.
func (r Result[T]) Diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(r.Warnings)+len(r.Errors))
	out = append(out, r.Warnings...)
	return append(out, r.Errors...)
}

// Check appends res diagnostics after the ones already in warnings and
// errors, then returns the value and whether it exists. The fallback is left
// to the caller:
//
//	item, ok := Check(sub, &warnings, &errors)
//	if !ok {
//		continue
//	}
func Check[T any](res Result[T], warnings, errors *[]diag.Diagnostic) (T, bool) {
	*warnings = append(*warnings, res.Warnings...)
	*errors = append(*errors, res.Errors...)
	return res.Value, res.OK
}

// CheckOr is Check with a fallback producer for the missing value.
func CheckOr[T any](res Result[T], fallback func() T, warnings, errors *[]diag.Diagnostic) T {
	if v, ok := Check(res, warnings, errors); ok {
		return v
	}
	return fallback()
}

// WarnIf appends d as a warning when cond does not hold. It never touches
// errors, so the enclosing lowering keeps its status.
func WarnIf(cond bool, warnings *[]diag.Diagnostic, d diag.Diagnostic) {
	if cond {
		return
	}
	d.Severity = diag.SevWarning
	*warnings = append(*warnings, d)
}
