package boltvalues

// Node is a graph vertex: an identity, a display element id, an ordered set
// of labels, and a property map.
type Node struct {
	ID         int64
	ElementID  string
	Labels     []string
	Properties *OrderedMap
}

// Equal reports deep equality of two nodes.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.ID != o.ID || n.ElementID != o.ElementID || len(n.Labels) != len(o.Labels) {
		return false
	}
	for i := range n.Labels {
		if n.Labels[i] != o.Labels[i] {
			return false
		}
	}
	return n.Properties.Equal(o.Properties)
}

// Relationship is a directed, typed edge between two Nodes. Start
// and end endpoints may be rebound exactly once, during Path assembly, by
// the unpacker (see unpackPath in boltcodec/unpack.go); after a Path is emitted the Relationship is
// observably immutable again.
type Relationship struct {
	ID               int64
	ElementID        string
	StartID          int64
	StartElementID   string
	EndID            int64
	EndElementID     string
	Type             string
	Properties       *OrderedMap
}

// Equal reports deep equality of two relationships.
func (r *Relationship) Equal(o *Relationship) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.ID == o.ID && r.ElementID == o.ElementID &&
		r.StartID == o.StartID && r.StartElementID == o.StartElementID &&
		r.EndID == o.EndID && r.EndElementID == o.EndElementID &&
		r.Type == o.Type && r.Properties.Equal(o.Properties)
}

// Rebind sets the relationship's endpoints. The only caller is the
// path-assembly step in boltcodec, which performs this mutation exactly
// once before the owning Path escapes the unpacker as an immutable value.
func Rebind(r *Relationship, startID int64, startElementID string, endID int64, endElementID string) {
	r.StartID, r.StartElementID = startID, startElementID
	r.EndID, r.EndElementID = endID, endElementID
}

// Path is an alternating Node/Relationship/.../Node sequence of odd length
// >= 1; every Relationship's start/end equal the neighbouring Nodes' ids.
type Path struct {
	Nodes         []*Node
	Relationships []*Relationship
}

// Equal reports deep equality of two paths.
func (p *Path) Equal(o *Path) bool {
	if p == nil || o == nil {
		return p == o
	}
	if len(p.Nodes) != len(o.Nodes) || len(p.Relationships) != len(o.Relationships) {
		return false
	}
	for i := range p.Nodes {
		if !p.Nodes[i].Equal(o.Nodes[i]) {
			return false
		}
	}
	for i := range p.Relationships {
		if !p.Relationships[i].Equal(o.Relationships[i]) {
			return false
		}
	}
	return true
}

// Len returns the number of relationship hops in the path.
func (p *Path) Len() int { return len(p.Relationships) }
