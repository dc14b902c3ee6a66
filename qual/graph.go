package qual

import (
	"sort"

	"github.com/benbjohnson/immutable"
	set "github.com/hashicorp/go-set/v3"
	"github.com/pkg/errors"
	xset "github.com/xtgo/set"

	"github.com/quala-dev/quala/util"
)

// Graph is a Hierarchy built from declared direct-supertype edges between
// qualifiers. The lattice structure is inferred: the top of each lattice is
// the only qualifier reachable from its members that has no supertype of its
// own, and a bottom exists when exactly one member is below every other
// member of the same lattice.
//
// Graph is immutable once built and safe for concurrent use.
type Graph struct {
	tops    []Annotation
	topOf   map[Annotation]Annotation
	bottoms map[Annotation]Annotation
	// supers holds the reflexive transitive closure of the declared edges
	supers  map[Annotation]*set.Set[Annotation]
	members map[Annotation]immutable.Set[Annotation]
}

var _ Hierarchy = (*Graph)(nil)

// NewGraph builds a Graph from each qualifier's declared direct supertypes.
// Qualifiers that appear only on the right-hand side of an edge are members
// too. Every connected component becomes one lattice; a component with more
// than one root is rejected, since the engine needs a unique top per lattice.
func NewGraph(directSupers map[Annotation][]Annotation) (*Graph, error) {
	members := memberUniverse(directSupers)
	if len(members) == 0 {
		return nil, errors.New("qualifier hierarchy: no qualifiers declared")
	}

	supers := make(map[Annotation]*set.Set[Annotation], len(members))
	for _, member := range members {
		supers[member] = closureFrom(member, directSupers)
	}

	g := &Graph{
		topOf:   make(map[Annotation]Annotation, len(members)),
		bottoms: make(map[Annotation]Annotation),
		supers:  supers,
		members: make(map[Annotation]immutable.Set[Annotation]),
	}

	roots := set.New[Annotation](1)
	for _, member := range members {
		if supers[member].Size() == 1 {
			roots.Insert(member)
		}
	}

	memberOf := make(map[Annotation]util.MSet[Annotation])
	for _, member := range members {
		reachableRoots := supers[member].Intersect(roots)
		if reachableRoots.Size() != 1 {
			return nil, errors.Errorf(
				"qualifier hierarchy: other than one possible top above %s: %v; does the hierarchy declare all its qualifiers?",
				member, reachableRoots.Slice(),
			)
		}
		top := reachableRoots.Slice()[0]
		g.topOf[member] = top
		lattice, ok := memberOf[top]
		if !ok {
			lattice = util.NewEmptySet[Annotation]()
			memberOf[top] = lattice
		}
		lattice.Add(member)
	}

	for top, lattice := range memberOf {
		g.tops = append(g.tops, top)
		g.members[top] = lattice.Immutable(annotationHasher{})
		if bottom, ok := inferBottom(lattice, supers); ok {
			g.bottoms[top] = bottom
		}
	}
	sort.Slice(g.tops, func(i, j int) bool { return g.tops[i].Name < g.tops[j].Name })

	logger.Debug("qualifier graph built", "lattices", len(g.tops), "qualifiers", len(members))
	return g, nil
}

// memberUniverse returns every qualifier mentioned in the declared edges,
// name-sorted and deduplicated.
func memberUniverse(directSupers map[Annotation][]Annotation) []Annotation {
	var names []string
	for member, supers := range directSupers {
		names = append(names, member.Name)
		for _, superAnno := range supers {
			names = append(names, superAnno.Name)
		}
	}
	sort.Strings(names)
	names = names[:xset.Uniq(sort.StringSlice(names))]

	members := make([]Annotation, len(names))
	for i, name := range names {
		members[i] = Annotation{Name: name}
	}
	return members
}

// closureFrom walks the declared edges upward from start, returning the
// reflexive transitive closure of its supertypes.
func closureFrom(start Annotation, directSupers map[Annotation][]Annotation) *set.Set[Annotation] {
	closure := set.From([]Annotation{start})
	frontier := []Annotation{start}
	for len(frontier) > 0 {
		next := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for _, superAnno := range directSupers[next] {
			if closure.Insert(superAnno) {
				frontier = append(frontier, superAnno)
			}
		}
	}
	return closure
}

// inferBottom finds the single member of a lattice that is below every other
// member, if there is exactly one.
func inferBottom(lattice util.MSet[Annotation], supers map[Annotation]*set.Set[Annotation]) (Annotation, bool) {
	var bottom Annotation
	found := false
	for member := range lattice.All() {
		belowAll := true
		for other := range lattice.All() {
			if !supers[member].Contains(other) {
				belowAll = false
				break
			}
		}
		if belowAll && found {
			return Annotation{}, false
		}
		if belowAll {
			bottom, found = member, true
		}
	}
	return bottom, found
}

func (g *Graph) Tops() []Annotation {
	return g.tops
}

func (g *Graph) Bottom(top Annotation) (Annotation, bool) {
	bottom, ok := g.bottoms[top]
	return bottom, ok
}

func (g *Graph) IsSubtype(sub, sup Annotation) bool {
	supers, ok := g.supers[sub]
	return ok && supers.Contains(sup)
}

// TopOf returns the top of the lattice anno belongs to.
func (g *Graph) TopOf(anno Annotation) (Annotation, bool) {
	top, ok := g.topOf[anno]
	return top, ok
}

// Members returns every qualifier of the lattice rooted at top, name-sorted.
func (g *Graph) Members(top Annotation) []Annotation {
	lattice, ok := g.members[top]
	if !ok {
		return nil
	}
	members := make([]Annotation, 0, lattice.Len())
	for itr := lattice.Iterator(); !itr.Done(); {
		member, _ := itr.Next()
		members = append(members, member)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members
}

// IsSubtypeAny reports whether any annotation in subs is a subtype of any
// annotation in sups. Empty sets are a caller defect.
func (g *Graph) IsSubtypeAny(subs, sups []Annotation) (bool, error) {
	if len(subs) == 0 || len(sups) == 0 {
		return false, errors.Errorf("qualifier hierarchy: empty annotation sets in subs: %v or sups: %v", subs, sups)
	}
	for _, sup := range sups {
		for _, sub := range subs {
			if g.IsSubtype(sub, sup) {
				return true, nil
			}
		}
	}
	return false, nil
}
