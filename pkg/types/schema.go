package types

// FieldDef describes one field of a model schema.
type FieldDef struct {
	Name     string    `json:"name" yaml:"name"`
	Type     FieldType `json:"type" yaml:"type"`
	Nullable bool      `json:"nullable" yaml:"nullable"`
	Default  any       `json:"default,omitempty" yaml:"default,omitempty"`
	Unique   bool      `json:"unique" yaml:"unique"`
}

// Definition is a raw model definition as supplied by the discovery
// collaborator. The registry validates it into a Schema.
type Definition struct {
	Model  string     `json:"model" yaml:"model"`
	Fields []FieldDef `json:"fields" yaml:"fields"`
}

// Schema is the validated, immutable description of one model. Key names
// the identifier field; when a definition declares no identifier field the
// registry prepends one named "id".
type Schema struct {
	Model  string
	Fields []FieldDef
	Key    string
}

// Field returns the definition of the named field.
func (s *Schema) Field(name string) (FieldDef, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// FieldNames returns field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}
