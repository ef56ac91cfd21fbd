package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"keel/internal/ast"
	"keel/internal/source"
)

// CheckModuleSpans runs span invariants on a lowered module:
// 1) every trait span is non-empty, inside the file and attributed to it
// 2) traits appear in source order and do not overlap
// 3) every span lowered from a trait lies within that trait's span
// 4) interface signatures and methods each keep source order
func CheckModuleSpans(mod *ast.Module, sf *source.File) error {
	if mod == nil || sf == nil {
		return fmt.Errorf("nil module or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prevEnd uint32
	for i := range mod.Traits {
		tr := &mod.Traits[i]
		if tr.Span.Empty() {
			return fmt.Errorf("trait %s: empty span", tr.Name)
		}
		if tr.Span.End > lenContent {
			return fmt.Errorf("trait %s: span end beyond content: %d > %d", tr.Name, tr.Span.End, lenContent)
		}
		if tr.Span.Path != sf.Path {
			return fmt.Errorf("trait %s: span points to %q, want %q", tr.Name, tr.Span.Path, sf.Path)
		}
		if i > 0 && tr.Span.Start < prevEnd {
			return fmt.Errorf("trait %s: starts at %d before previous trait ends at %d", tr.Name, tr.Span.Start, prevEnd)
		}
		prevEnd = tr.Span.End
		if err := checkTrait(tr); err != nil {
			return fmt.Errorf("trait %s: %w", tr.Name, err)
		}
	}
	return nil
}

func checkTrait(tr *ast.TraitDeclaration) error {
	within := func(what string, sp source.Span) error {
		if sp.Start < tr.Span.Start || sp.End > tr.Span.End || sp.End < sp.Start {
			return fmt.Errorf("%s span %s outside %s", what, sp, tr.Span)
		}
		return nil
	}
	if err := within("name", tr.Name.Span); err != nil {
		return err
	}
	for _, tp := range tr.TypeParameters {
		if err := within("type parameter "+tp.Name.Name, tp.Name.Span); err != nil {
			return err
		}
		for _, c := range tp.Constraints {
			if err := within("constraint "+c.Name, c.Span); err != nil {
				return err
			}
		}
	}

	var prev uint32
	for i, fn := range tr.InterfaceSurface {
		if i > 0 && fn.Name.Span.Start < prev {
			return fmt.Errorf("signature %s out of source order", fn.Name)
		}
		prev = fn.Name.Span.Start
		if err := within("signature "+fn.Name.Name, fn.Name.Span); err != nil {
			return err
		}
		if err := within("return type of "+fn.Name.Name, fn.ReturnTypeSpan); err != nil {
			return err
		}
		if err := checkParams(fn.Name.Name, fn.Parameters, within); err != nil {
			return err
		}
	}

	prev = 0
	for i, m := range tr.Methods {
		if i > 0 && m.Span.Start < prev {
			return fmt.Errorf("method %s out of source order", m.Name)
		}
		prev = m.Span.Start
		if err := within("method "+m.Name.Name, m.Span); err != nil {
			return err
		}
		if m.Body.Span.Start < m.Span.Start || m.Body.Span.End > m.Span.End {
			return fmt.Errorf("method %s: body span %s outside %s", m.Name, m.Body.Span, m.Span)
		}
		if err := checkParams(m.Name.Name, m.Parameters, within); err != nil {
			return err
		}
	}
	return nil
}

func checkParams(fn string, params []ast.FunctionParameter, within func(string, source.Span) error) error {
	for _, p := range params {
		if err := within(fn+" parameter "+p.Name.Name, p.Name.Span); err != nil {
			return err
		}
		if err := within(fn+" parameter type", p.TypeSpan); err != nil {
			return err
		}
	}
	return nil
}
