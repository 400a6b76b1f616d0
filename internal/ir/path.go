package ir

import (
	"strings"

	"github.com/quernlang/quern/internal/schema"
)

// PathKey is the canonical string form of a path identity, usable as an
// index key.
type PathKey string

// Step is one element of a LinearPath: either a node step (Concept set,
// optionally tagged with the pointer name for property leaves) or a link
// step (Link set, with a direction).
type Step struct {
	Concept schema.Type
	Tag     schema.Name

	Link      *schema.Link
	Direction Direction
}

// IsLink reports whether the step is a link step.
func (s Step) IsLink() bool { return s.Link != nil }

// LinearPath is a branchless root-to-leaf traversal in the form
// <concept> <link> <concept> <link> ... <concept>. It is ordered, hashable
// via Key, and positionally comparable.
type LinearPath struct {
	steps []Step
}

// NewLinearPath starts a path at the given root type.
func NewLinearPath(root schema.Type) *LinearPath {
	return &LinearPath{steps: []Step{{Concept: root}}}
}

// Len returns the step count.
func (p *LinearPath) Len() int { return len(p.steps) }

// Root returns the path's first node type, or nil for an empty path.
func (p *LinearPath) Root() schema.Type {
	if len(p.steps) == 0 {
		return nil
	}
	return p.steps[0].Concept
}

// Add appends a traversal step. A specialized link is normalized to its
// topmost generic form so that equivalent traversals through different
// source concepts share an identity.
func (p *LinearPath) Add(link *schema.Link, dir Direction, target schema.Type) {
	p.AddTagged(link, dir, target, "")
}

// AddTagged appends a traversal step whose target carries a pointer-name
// tag, used for property leaves where the atom type alone is ambiguous.
func (p *LinearPath) AddTagged(link *schema.Link, dir Direction, target schema.Type, tag schema.Name) {
	if link != nil && !link.Generic() {
		link = link.Topmost()
	}
	p.steps = append(p.steps,
		Step{Link: link, Direction: dir},
		Step{Concept: target, Tag: tag})
}

// Clone returns an independent copy.
func (p *LinearPath) Clone() *LinearPath {
	steps := make([]Step, len(p.steps))
	copy(steps, p.steps)
	return &LinearPath{steps: steps}
}

func nodeStepEqual(a, b Step) bool {
	if a.Tag != b.Tag {
		return false
	}
	if a.Concept == nil || b.Concept == nil {
		return a.Concept == nil && b.Concept == nil
	}
	return schema.Equal(a.Concept, b.Concept)
}

func linkStepEqual(a, b Step) bool {
	if a.Direction != b.Direction {
		return false
	}
	if a.Link == nil || b.Link == nil {
		return a.Link == b.Link
	}
	return a.Link.TypeName() == b.Link.TypeName()
}

// Equal is positional: both paths must have the same length and, walking
// from the root, each node step and link step pair must match. Links were
// normalized to their generic form on Add, so specialization differences
// do not break equality.
func (p *LinearPath) Equal(other *LinearPath) bool {
	if other == nil || len(other.steps) != len(p.steps) {
		return false
	}
	if len(p.steps) == 0 {
		return true
	}
	if !nodeStepEqual(p.steps[0], other.steps[0]) {
		return false
	}
	for i := 1; i < len(p.steps)-1; i += 2 {
		if !linkStepEqual(p.steps[i], other.steps[i]) {
			return false
		}
		if !nodeStepEqual(p.steps[i+1], other.steps[i+1]) {
			return false
		}
	}
	return true
}

// String renders the path as Root[<direction><link>]Next[...]Leaf.
// Tagged leaves render as Type(tag); a nil target renders as NULL.
func (p *LinearPath) String() string {
	if len(p.steps) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(string(p.steps[0].Concept.TypeName()))
	for i := 1; i < len(p.steps)-1; i += 2 {
		link := p.steps[i]
		target := p.steps[i+1]
		b.WriteString("[")
		b.WriteString(string(link.Direction))
		b.WriteString(string(link.Link.TypeName()))
		b.WriteString("]")
		switch {
		case target.Concept == nil:
			b.WriteString("NULL")
		case target.Tag != "":
			b.WriteString(string(target.Concept.TypeName()))
			b.WriteString("(")
			b.WriteString(string(target.Tag))
			b.WriteString(")")
		default:
			b.WriteString(string(target.Concept.TypeName()))
		}
	}
	return b.String()
}

// Key returns the path's canonical index key.
func (p *LinearPath) Key() PathKey { return PathKey(p.String()) }

// PathID derives the path identity of an entity set by walking its rlink
// chain up to the root and reversing, so the result reads root-to-leaf.
// Returns nil when the set has no concept.
func PathID(es *EntitySet) *LinearPath {
	if es == nil || es.Concept == nil {
		return nil
	}
	chain := []*EntitySet{es}
	for cur := es; cur.RLink != nil && cur.RLink.Source != nil; {
		cur = cur.RLink.Source
		chain = append(chain, cur)
	}
	root := chain[len(chain)-1]
	path := NewLinearPath(root.Concept)
	for i := len(chain) - 2; i >= 0; i-- {
		rlink := chain[i].RLink
		var target schema.Type
		if chain[i].Concept != nil {
			target = chain[i].Concept
		}
		path.Add(rlink.LinkProto, rlink.Direction, target)
	}
	return path
}

// RefPathID derives the path identity of a simple property reference: the
// identity of its source entity extended with the pointer step. Returns
// nil when the source is a combination or the pointer is unresolved, in
// which case the reference has no identity of its own.
func RefPathID(ref *AtomicRefSimple) *LinearPath {
	if ref.ID != nil {
		return ref.ID
	}
	src, ok := ref.Ref.(*EntitySet)
	if !ok || ref.PtrProto == nil {
		return nil
	}
	base := PathID(src)
	if base == nil {
		return nil
	}
	base.AddTagged(ref.PtrProto, Outbound, ref.PtrProto.Target, ref.Name)
	return base
}
