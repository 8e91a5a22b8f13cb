package chain

// Arena holds the full node set with parent links resolved to integer
// indices, so chain walks never chase live pointers. An index of -1 marks a
// root or a parent that is absent from the node set.
type Arena struct {
	nodes   []Node
	index   map[string]int32
	parents []int32
}

const noParent = int32(-1)

// NewArena builds an arena from a node set. Node order is preserved; later
// duplicates of an id shadow earlier ones in the lookup.
func NewArena(nodes []Node) *Arena {
	a := &Arena{
		nodes:   nodes,
		index:   make(map[string]int32, len(nodes)),
		parents: make([]int32, len(nodes)),
	}
	for i := range nodes {
		a.index[nodes[i].ID] = int32(i)
	}
	for i := range nodes {
		a.parents[i] = noParent
		if pid := nodes[i].ParentID; pid != "" {
			if pi, ok := a.index[pid]; ok {
				a.parents[i] = pi
			}
		}
	}
	return a
}

// Node returns the node with the given id.
func (a *Arena) Node(id string) (*Node, bool) {
	i, ok := a.index[id]
	if !ok {
		return nil, false
	}
	return &a.nodes[i], true
}

// Len returns the number of nodes in the arena.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// parent returns the parent index of node i, or noParent.
func (a *Arena) parent(i int32) int32 {
	return a.parents[i]
}
