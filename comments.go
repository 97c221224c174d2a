// comments.go: attaches lexed comments to syntax tree nodes.
//
// Comments never appear in the token stream, so after parsing each one is
// assigned to exactly one node by span arithmetic over the full node set.
// The search is O(nodes x comments); source files are small enough that
// this has never mattered.
//
// Convention, applied in order until a pass succeeds:
//
//  1. A comment enclosed by a node's span goes to the innermost such
//     node as an inline comment.
//  2. Otherwise the comment goes to the nearest node ending before it,
//     as a trailing comment of that node.
//  3. Otherwise (nothing precedes it) it goes to the nearest node
//     starting after it, as a leading comment.
//
// Code blocks and empty placeholders never receive comments: blocks
// enclose nearly everything and a comment belongs to content, not to its
// container, while empties mark absent syntax. Distance ties in passes 2
// and 3 go to the node registered last, which at a given position is the
// outermost finished construct, so a comment before a statement lands on
// the statement rather than on its first identifier. In pass 1 ties go
// to the node registered first. With an empty node set the comments are
// dropped; a file containing only comments still parses.
package meson

func attachComments(nodes []Node, comments []Comment) {
	for _, c := range comments {
		if n := enclosingNode(nodes, c); n != nil {
			b := n.Base()
			b.InlineComments = append(b.InlineComments, c)
			continue
		}
		if n := precedingNode(nodes, c); n != nil {
			b := n.Base()
			b.TrailComments = append(b.TrailComments, c)
			continue
		}
		if n := followingNode(nodes, c); n != nil {
			b := n.Base()
			b.LeadComments = append(b.LeadComments, c)
		}
	}
}

func unattachable(n Node) bool {
	switch n.(type) {
	case *CodeBlockNode, *EmptyNode:
		return true
	}
	return false
}

func enclosingNode(nodes []Node, c Comment) Node {
	var best Node
	bestWidth := -1
	for _, n := range nodes {
		if unattachable(n) {
			continue
		}
		sp := n.Base().Span
		if sp.Start <= c.Span.Start && c.Span.End <= sp.End {
			if w := sp.End - sp.Start; best == nil || w < bestWidth {
				best, bestWidth = n, w
			}
		}
	}
	return best
}

func precedingNode(nodes []Node, c Comment) Node {
	var best Node
	bestDist := -1
	for _, n := range nodes {
		if unattachable(n) {
			continue
		}
		sp := n.Base().Span
		if sp.End <= c.Span.Start {
			if d := c.Span.Start - sp.End; best == nil || d <= bestDist {
				best, bestDist = n, d
			}
		}
	}
	return best
}

func followingNode(nodes []Node, c Comment) Node {
	var best Node
	bestDist := -1
	for _, n := range nodes {
		if unattachable(n) {
			continue
		}
		sp := n.Base().Span
		if sp.Start >= c.Span.End {
			if d := sp.Start - c.Span.End; best == nil || d <= bestDist {
				best, bestDist = n, d
			}
		}
	}
	return best
}
