// Package ahocorasick implements a multi-pattern byte-string matcher built
// on the Aho-Corasick automaton: a keyword trie augmented with failure
// links and per-node match sets, giving O(n + sum(|pattern|) + matches)
// total work independent of the number of patterns.
//
// An Automaton is built by repeated calls to Add, then sealed with
// Finalize. Once finalized it is safe for concurrent read-only use: each
// goroutine should own its own Cursor (for Search/SetText/FindNext) or
// ReplaceSession (for Replace/Flush), since those carry the only mutable,
// per-caller state.
//
// The package intentionally has no opinion on where patterns come from,
// how input is chunked, or what happens to search results — that is a
// caller's concern (see pkg/rule and pkg/scanner for one such caller).
package ahocorasick
