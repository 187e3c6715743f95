package ahocorasick

import (
	"bytes"
	"sort"
)

// edge is one outgoing transition of a Node.
type edge struct {
	alpha byte
	next  *Node
}

// Node is one state of the trie. Edges are owned by the Automaton's arena
// (Automaton.nodes); a Node itself only holds non-owning references to its
// children, its failure link and the patterns that end on it.
type Node struct {
	id    int
	depth int

	// final is true once any pattern's key ends at this node. Finalize
	// additionally sets it for nodes whose failure chain passes through a
	// final node, since a suffix match is still a match.
	final bool

	edges  []edge
	sorted bool

	// failure is the deepest proper node reachable by the longest proper
	// suffix of this node's root path that is itself a root path in the
	// trie. Root's failure is nil. Set once, during Finalize.
	failure *Node

	// matches holds every distinct pattern ending at this node, unioned
	// with its failure chain's matches during Finalize. Deduplicated by
	// key equality.
	matches []*Pattern

	// replacementOf is the longest matches[i] that has a replacement, or
	// nil if none of this node's matches carry one. Computed once during
	// Finalize; consulted by the replace engine on every forward
	// transition into a final node.
	replacementOf *Pattern
}

// findNext performs a linear scan over unsorted edges. Used only during
// trie construction and failure-link computation, before edges are sorted.
func (n *Node) findNext(alpha byte) *Node {
	for _, e := range n.edges {
		if e.alpha == alpha {
			return e.next
		}
	}
	return nil
}

// findNextSorted performs a binary search over edges sorted ascending by
// alpha. Valid only after Finalize has run (which sorts every node's
// edges); used by the search and replace drivers.
func (n *Node) findNextSorted(alpha byte) *Node {
	lo, hi := 0, len(n.edges)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		a := n.edges[mid].alpha
		switch {
		case alpha > a:
			lo = mid + 1
		case alpha < a:
			hi = mid - 1
		default:
			return n.edges[mid].next
		}
	}
	return nil
}

func (n *Node) addEdge(alpha byte, next *Node) {
	n.edges = append(n.edges, edge{alpha: alpha, next: next})
}

func (n *Node) sortEdges() {
	if n.sorted {
		return
	}
	sort.Slice(n.edges, func(i, j int) bool { return n.edges[i].alpha < n.edges[j].alpha })
	n.sorted = true
}

// hasMatch reports whether a pattern with an identical key is already
// registered on this node.
func (n *Node) hasMatch(p *Pattern) bool {
	for _, m := range n.matches {
		if bytes.Equal(m.Key, p.Key) {
			return true
		}
	}
	return false
}

// addMatch registers p on this node, deduplicating by key equality.
func (n *Node) addMatch(p *Pattern) {
	if n.hasMatch(p) {
		return
	}
	n.matches = append(n.matches, p)
}

// bookReplacement picks the longest-keyed match that carries a
// replacement and records it as replacementOf. Reports whether any
// replacement pattern was found.
func (n *Node) bookReplacement() bool {
	if !n.final {
		return false
	}
	var longest *Pattern
	for _, m := range n.matches {
		if !m.HasReplacement {
			continue
		}
		if longest == nil || len(m.Key) > len(longest.Key) {
			longest = m
		}
	}
	n.replacementOf = longest
	return longest != nil
}
