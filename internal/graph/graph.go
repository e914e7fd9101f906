package graph

import (
	"fmt"
	"slices"
	"sync"
)

type edgeKey struct {
	from, to string
	kind     EdgeKind
}

// Graph is the dependency graph of one composition.
type Graph struct {
	mu      sync.RWMutex
	nodes   map[string]*Node
	index   map[string]int
	order   []string
	edges   []Edge
	edgeSet map[edgeKey]struct{}
	deps    map[string]map[string]struct{}
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[string]*Node),
		index:   make(map[string]int),
		edgeSet: make(map[edgeKey]struct{}),
		deps:    make(map[string]map[string]struct{}),
	}
}

// Add inserts a node and derives data edges from the references in its
// property bag. Referenced nodes must already be part of the graph.
func (g *Graph) Add(n *Node) (*Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if n.id == "" {
		return nil, fmt.Errorf("node of kind %s has an empty identifier", n.kind)
	}
	if _, exists := g.nodes[n.id]; exists {
		return nil, nodeErr(n.id, ErrDuplicateNode)
	}

	refs := n.props.References()
	for _, r := range refs {
		if r.NodeID == n.id {
			return nil, nodeErrf(n.id, "property references its own attribute %q", r.Attr)
		}
		if _, ok := g.nodes[r.NodeID]; !ok {
			return nil, nodeErrf(n.id, "reference %s: %w", r, ErrUnknownNode)
		}
	}

	g.nodes[n.id] = n
	g.index[n.id] = len(g.order)
	g.order = append(g.order, n.id)
	g.deps[n.id] = make(map[string]struct{})

	for _, r := range refs {
		g.addEdgeLocked(Edge{From: r.NodeID, To: n.id, Kind: EdgeData, Reason: r.Attr})
	}
	return n, nil
}

// MustAdd is Add for declarations whose inputs are already validated.
func (g *Graph) MustAdd(n *Node) *Node {
	added, err := g.Add(n)
	if err != nil {
		panic(err)
	}
	return added
}

// AddOrderingEdge declares that to must materialize after from even though
// it does not reference any of from's attributes. Cycles are reported by
// Validate, not here.
func (g *Graph) AddOrderingEdge(from, to, reason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if from == to {
		return nodeErrf(to, "ordering edge on itself")
	}
	if _, ok := g.nodes[from]; !ok {
		return nodeErrf(from, "ordering edge source: %w", ErrUnknownNode)
	}
	if _, ok := g.nodes[to]; !ok {
		return nodeErrf(to, "ordering edge target: %w", ErrUnknownNode)
	}
	g.addEdgeLocked(Edge{From: from, To: to, Kind: EdgeOrdering, Reason: reason})
	return nil
}

func (g *Graph) addEdgeLocked(e Edge) {
	key := edgeKey{from: e.From, to: e.To, kind: e.Kind}
	if _, ok := g.edgeSet[key]; ok {
		return
	}
	g.edgeSet[key] = struct{}{}
	g.edges = append(g.edges, e)
	g.deps[e.To][e.From] = struct{}{}
}

// Node looks up a node by identifier.
func (g *Graph) Node(id string) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in declaration order.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodesOfKind returns the nodes of one kind in declaration order.
func (g *Graph) NodesOfKind(kind Kind) []*Node {
	var out []*Node
	for _, n := range g.Nodes() {
		if n.kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Edges returns a copy of the edge set in declaration order.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.edges)
}

// HasEdge reports whether an edge of the given kind exists.
func (g *Graph) HasEdge(from, to string, kind EdgeKind) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.edgeSet[edgeKey{from: from, to: to, kind: kind}]
	return ok
}

// Predecessors returns the nodes id depends on, in declaration order.
func (g *Graph) Predecessors(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sortedLocked(g.deps[id])
}

func (g *Graph) sortedLocked(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b string) int { return g.index[a] - g.index[b] })
	return out
}

// Attr implements Lookup.
func (g *Graph) Attr(nodeID, key string) (string, error) {
	n, ok := g.Node(nodeID)
	if !ok {
		return "", nodeErr(nodeID, ErrUnknownNode)
	}
	return n.Attr(key)
}

// Validate checks that the edge set is acyclic.
func (g *Graph) Validate() error {
	_, err := g.TopologicalSort()
	return err
}

// TopologicalSort orders nodes so every node follows its predecessors.
// Among ready nodes, declaration order wins, so the result is stable.
func (g *Graph) TopologicalSort() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	inDegree := make(map[string]int, len(g.order))
	successors := make(map[string][]string, len(g.order))
	for _, id := range g.order {
		inDegree[id] = len(g.deps[id])
		for from := range g.deps[id] {
			successors[from] = append(successors[from], id)
		}
	}

	var ready []string
	for _, id := range g.order {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	sorted := make([]string, 0, len(g.order))
	for len(ready) > 0 {
		slices.SortFunc(ready, func(a, b string) int { return g.index[a] - g.index[b] })
		id := ready[0]
		ready = ready[1:]
		sorted = append(sorted, id)
		for _, succ := range successors[id] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				ready = append(ready, succ)
			}
		}
	}

	if len(sorted) != len(g.order) {
		return nil, &CycleError{Cycle: g.findCycleLocked(inDegree)}
	}
	return sorted, nil
}

// findCycleLocked walks predecessor links among the nodes Kahn's algorithm
// could not order until a node repeats.
func (g *Graph) findCycleLocked(inDegree map[string]int) []string {
	var start string
	for _, id := range g.order {
		if inDegree[id] > 0 {
			start = id
			break
		}
	}

	visited := make(map[string]int)
	path := []string{}
	cur := start
	for {
		if pos, seen := visited[cur]; seen {
			cycle := slices.Clone(path[pos:])
			slices.Reverse(cycle)
			first := 0
			for i, id := range cycle {
				if g.index[id] < g.index[cycle[first]] {
					first = i
				}
			}
			cycle = slices.Concat(cycle[first:], cycle[:first])
			return append(cycle, cycle[0])
		}
		visited[cur] = len(path)
		path = append(path, cur)

		next := ""
		for _, dep := range g.sortedLocked(g.deps[cur]) {
			if inDegree[dep] > 0 {
				next = dep
				break
			}
		}
		if next == "" {
			return path
		}
		cur = next
	}
}
