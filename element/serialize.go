package element

// Serialized is the wire shape from spec.md §6's serialization contract:
// an Element record with ranges expanded to {start:{line,column},
// end:{line,column}} and children nested recursively.
type Serialized struct {
	Kind       Kind            `json:"kind"`
	Name       string          `json:"name"`
	Content    string          `json:"content,omitempty"`
	Range      *SerializedRange `json:"range,omitempty"`
	ParentName string          `json:"parent_name,omitempty"`
	ValueType  string          `json:"value_type,omitempty"`
	Attributes Attributes      `json:"attributes,omitempty"`
	Children   []Serialized    `json:"children,omitempty"`
}

// SerializedRange is a Range's wire shape.
type SerializedRange struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Point is one endpoint of a SerializedRange.
type Point struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Serialize converts e into its wire record, recursing into children.
func (e *Element) Serialize() Serialized {
	s := Serialized{
		Kind:       e.Kind,
		Name:       e.Name,
		Content:    e.Content,
		ValueType:  e.ValueType,
		Attributes: e.Attributes,
	}
	if e.HasParent {
		s.ParentName = e.ParentName
	}
	if e.HasRange {
		s.Range = &SerializedRange{
			Start: Point{Line: e.Range.StartLine, Column: e.Range.StartColumn},
			End:   Point{Line: e.Range.EndLine, Column: e.Range.EndColumn},
		}
	}
	for _, c := range e.Children {
		s.Children = append(s.Children, c.Serialize())
	}
	return s
}

// Serialize converts an entire tree into its wire record list.
func (t *ElementTree) Serialize() []Serialized {
	if t == nil {
		return nil
	}
	out := make([]Serialized, 0, len(t.Elements))
	for _, el := range t.Elements {
		out = append(out, el.Serialize())
	}
	return out
}
