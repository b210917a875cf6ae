package iges

import (
	"fmt"
	"strings"

	"iges2bezier/internal/mathutil"
)

// maxTransformChain bounds the walk up transform parents.
const maxTransformChain = 32

type node struct {
	entity Entity
	err    error // decode failure, reported on lookup
}

// Graph is every entity of one file in directory order, addressable by
// directory sequence number.
type Graph struct {
	Global Global

	nodes []node
	index map[int]int // sequence number -> nodes index
}

func newGraph() *Graph {
	return &Graph{index: make(map[int]int)}
}

func (g *Graph) add(e Entity) error {
	seq := e.Header().Seq
	if _, dup := g.index[seq]; dup {
		return fmt.Errorf("iges: duplicate directory sequence %d", seq)
	}
	g.index[seq] = len(g.nodes)
	g.nodes = append(g.nodes, node{entity: e})
	return nil
}

// Len returns the number of entities.
func (g *Graph) Len() int { return len(g.nodes) }

// At returns the i-th entity in directory order and its decode error, if
// any.
func (g *Graph) At(i int) (Entity, error) {
	n := g.nodes[i]
	return n.entity, n.err
}

// Lookup resolves a directory pointer.
func (g *Graph) Lookup(seq int) (Entity, error) {
	i, ok := g.index[seq]
	if !ok {
		return nil, &ReferenceError{Seq: seq}
	}
	n := g.nodes[i]
	if n.err != nil {
		return nil, n.err
	}
	return n.entity, nil
}

// LookupAs resolves a directory pointer and checks the entity kind.
func LookupAs[T Entity](g *Graph, seq int) (T, error) {
	var zero T
	e, err := g.Lookup(seq)
	if err != nil {
		return zero, err
	}
	t, ok := e.(T)
	if !ok {
		want := strings.TrimPrefix(fmt.Sprintf("%T", zero), "*iges.")
		return zero, &TypeError{Seq: seq, Got: e.Header().Type, Want: want}
	}
	return t, nil
}

// Placement composes the transformation matrix chain of an entity into a
// single model-space matrix. Entities without a transform get identity.
func (g *Graph) Placement(e Entity) (mathutil.Mat4, error) {
	m := mathutil.Mat4Identity()
	ptr := e.Header().Transform
	for depth := 0; ptr > 0; depth++ {
		if depth >= maxTransformChain {
			return m, fmt.Errorf("%w: transform chain longer than %d at DE %d", errBadLayout, maxTransformChain, ptr)
		}
		t, err := LookupAs[*TransformationMatrix](g, ptr)
		if err != nil {
			return m, err
		}
		m = mathutil.Mat4Mul(t.Matrix(), m)
		ptr = t.Transform
	}
	return m, nil
}

// Errors returns the decode errors of all failed entities in directory
// order.
func (g *Graph) Errors() []error {
	var errs []error
	for _, n := range g.nodes {
		if n.err != nil {
			errs = append(errs, n.err)
		}
	}
	return errs
}
