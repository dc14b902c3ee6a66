package qual

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// latticesDoc is the YAML schema for declaring qualifier lattices, e.g.
//
//	lattices:
//	  - name: nullness
//	    qualifiers:
//	      - name: Nullable
//	      - name: NonNull
//	        subtypeOf: [Nullable]
type latticesDoc struct {
	Lattices []latticeDoc `yaml:"lattices"`
}

type latticeDoc struct {
	Name       string         `yaml:"name"`
	Qualifiers []qualifierDoc `yaml:"qualifiers"`
}

type qualifierDoc struct {
	Name      string   `yaml:"name"`
	SubtypeOf []string `yaml:"subtypeOf"`
}

// LoadGraph reads YAML lattice declarations and builds the Graph they
// describe. The lattice names are documentation only; lattice identity comes
// from the edge structure, same as NewGraph.
func LoadGraph(r io.Reader) (*Graph, error) {
	var doc latticesDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding qualifier lattice declarations")
	}
	if len(doc.Lattices) == 0 {
		return nil, errors.New("qualifier lattice declarations contain no lattices")
	}

	directSupers := make(map[Annotation][]Annotation)
	for _, lattice := range doc.Lattices {
		for _, qualifier := range lattice.Qualifiers {
			anno := Annotation{Name: qualifier.Name}
			if anno.IsZero() {
				return nil, errors.Errorf("lattice %q declares a qualifier without a name", lattice.Name)
			}
			supers := directSupers[anno]
			for _, superName := range qualifier.SubtypeOf {
				supers = append(supers, Annotation{Name: superName})
			}
			directSupers[anno] = supers
		}
	}

	graph, err := NewGraph(directSupers)
	if err != nil {
		return nil, errors.Wrap(err, "building qualifier hierarchy from declarations")
	}
	return graph, nil
}
