package graph

import "fmt"

// OutputExport is a named value surfaced to consumers outside the
// provisioning unit.
type OutputExport struct {
	Key         string `json:"key" yaml:"key"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Value       string `json:"value" yaml:"value"`
}

const (
	exportPropKey         = "key"
	exportPropDescription = "description"
	exportPropValue       = "value"
)

// ExportID returns the logical identifier of the export node for key.
func ExportID(key string) string { return "output-" + key }

// Export declares an OutputExport node whose value may reference resolved
// attributes.
func (g *Graph) Export(key, description string, value Value) (*Node, error) {
	if key == "" {
		return nil, fmt.Errorf("output export requires a key")
	}
	return g.Add(NewNode(ExportID(key), KindOutputExport, Properties{
		exportPropKey:         Lit(key),
		exportPropDescription: Lit(description),
		exportPropValue:       value,
	}))
}

// ResolveExport evaluates an export node's value and writes it as the
// node's only attribute.
func (g *Graph) ResolveExport(n *Node) error {
	if n.kind != KindOutputExport {
		return nodeErrf(n.id, "not an output export (kind %s)", n.kind)
	}
	v, ok := n.props[exportPropValue]
	if !ok || v == nil {
		return nodeErrf(n.id, "output export has no value")
	}
	resolved, err := v.Resolve(g)
	if err != nil {
		return nodeErr(n.id, err)
	}
	s := fmt.Sprint(resolved)
	if s == "" {
		return nodeErrf(n.id, "output export resolved to an empty value")
	}
	return n.Resolve(Attributes{AttrValue: s})
}

// Outputs collects all exports in declaration order. Every export must have
// been resolved.
func (g *Graph) Outputs() ([]OutputExport, error) {
	var out []OutputExport
	for _, n := range g.NodesOfKind(KindOutputExport) {
		value, err := n.Attr(AttrValue)
		if err != nil {
			return nil, err
		}
		key, _ := n.props[exportPropKey].Resolve(g)
		desc, _ := n.props[exportPropDescription].Resolve(g)
		out = append(out, OutputExport{
			Key:         fmt.Sprint(key),
			Description: fmt.Sprint(desc),
			Value:       value,
		})
	}
	return out, nil
}
