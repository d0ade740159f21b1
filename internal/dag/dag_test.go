package dag

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type node struct {
	Crate   string
	Feature string
}

func less(a, b node) bool {
	if a.Crate != b.Crate {
		return a.Crate < b.Crate
	}
	return a.Feature < b.Feature
}

func keyOf(n node) string {
	return n.Crate + "\x00" + n.Feature
}

func newTestGraph() *Graph[node] {
	return New[node](less, keyOf)
}

func TestAddEdgeIdempotent(t *testing.T) {
	g := newTestGraph()
	a := node{"A", "default"}
	b := node{"B", "default"}

	g.AddEdge(a, b)
	g.AddEdge(a, b)

	if g.NumEdges() != 1 {
		t.Fatalf("NumEdges() = %d, want 1", g.NumEdges())
	}
	if !g.Adjacent(a, b) {
		t.Fatalf("expected edge A/default -> B/default")
	}
	if g.Adjacent(b, a) {
		t.Fatalf("unexpected edge B/default -> A/default")
	}
}

func TestAnyPathFindsTransitivePath(t *testing.T) {
	g := newTestGraph()
	a := node{"A", "default"}
	b := node{"B", "std"}
	c := node{"C", "std"}
	g.AddEdge(a, b)
	g.AddEdge(b, c)

	path, ok := g.AnyPath(a, c)
	if !ok {
		t.Fatalf("expected a to reach c")
	}
	want := []node{a, b, c}
	if diff := cmp.Diff(want, path); diff != "" {
		t.Fatalf("unexpected path (-want +got):\n%s", diff)
	}
}

func TestAnyPathUnreachable(t *testing.T) {
	g := newTestGraph()
	a := node{"A", "default"}
	b := node{"B", "default"}
	g.AddNode(a)
	g.AddNode(b)

	if _, ok := g.AnyPath(a, b); ok {
		t.Fatalf("expected no path between disconnected nodes")
	}
}

func TestReachablePredicateTerminatesOnCycle(t *testing.T) {
	g := newTestGraph()
	a := node{"A", "default"}
	b := node{"B", "default"}
	c := node{"C", "default"}
	g.AddEdge(a, b)
	g.AddEdge(b, c)
	g.AddEdge(c, a) // cycle back to a

	path, ok := g.ReachablePredicate(a, func(n node) bool { return n.Crate == "Z" })
	if ok {
		t.Fatalf("unexpected path to nonexistent node: %v", path)
	}
}

func TestSubInducesOnlyMatchingEdges(t *testing.T) {
	g := newTestGraph()
	a := node{"A", "default"}
	b := node{"B", "default"}
	c := node{"C", "default"}
	g.AddEdge(a, b)
	g.AddEdge(b, c)

	sub := g.Sub(func(n node) bool { return n.Crate != "C" })
	if sub.NumNodes() != 2 {
		t.Fatalf("NumNodes() = %d, want 2", sub.NumNodes())
	}
	if sub.NumEdges() != 1 {
		t.Fatalf("NumEdges() = %d, want 1", sub.NumEdges())
	}
	if !sub.Adjacent(a, b) {
		t.Fatalf("expected a->b to survive subgraph extraction")
	}
}

func TestQueriesOnUnknownNodesReturnEmpty(t *testing.T) {
	g := newTestGraph()
	unknown := node{"Ghost", "default"}

	if g.Adjacent(unknown, unknown) {
		t.Fatalf("Adjacent on unknown nodes should be false")
	}
	if _, ok := g.AnyPath(unknown, unknown); ok {
		t.Fatalf("AnyPath from unknown node should report unreachable, not panic")
	}
	if g.Degree(unknown) != 0 {
		t.Fatalf("Degree on unknown node should be 0")
	}
	if g.InverseLookup(unknown) != nil {
		t.Fatalf("InverseLookup on unknown node should be nil")
	}
}
