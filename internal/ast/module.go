package ast

// Module is the lowered content of one source file.
type Module struct {
	Path      string
	Traits    []TraitDeclaration
	Functions []FunctionDeclaration
}

// Trait returns the first trait declared with name.
func (m *Module) Trait(name string) (*TraitDeclaration, bool) {
	for i := range m.Traits {
		if m.Traits[i].Name.Name == name {
			return &m.Traits[i], true
		}
	}
	return nil, false
}
