package lbvh

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
)

// Node is a node of a linear BVH hierarchy. Leaves have no children and
// reference a single primitive; internal nodes own exactly two children
// and set PrimitiveID to -1.
type Node struct {
	ChildA, ChildB *Node

	PrimitiveID int
}

func newLeaf(primitiveID int) *Node {
	return &Node{PrimitiveID: primitiveID}
}

func newInternal(childA, childB *Node) *Node {
	return &Node{
		ChildA:      childA,
		ChildB:      childB,
		PrimitiveID: -1,
	}
}

// Returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.ChildA == nil && n.ChildB == nil
}

// Count the nodes of the hierarchy rooted at h.
func CountNodes(h *Node) int {
	if h == nil {
		return 0
	}
	return 1 + CountNodes(h.ChildA) + CountNodes(h.ChildB)
}

// Stats describes the shape of a linear BVH hierarchy.
type Stats struct {
	Nodes    int `json:"nodes"`
	Leaves   int `json:"leaves"`
	MaxDepth int `json:"max_depth"`
}

// Walk the hierarchy rooted at h and collect its statistics. Hierarchies
// built from heavily duplicated codes can be as deep as their leaf count
// so the walk uses an explicit stack.
func Inspect(h *Node) Stats {
	var stats Stats
	if h == nil {
		return stats
	}

	type entry struct {
		node  *Node
		depth int
	}
	stack := []entry{{h, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		stats.Nodes++
		if e.depth > stats.MaxDepth {
			stats.MaxDepth = e.depth
		}
		if e.node.IsLeaf() {
			stats.Leaves++
			continue
		}
		stack = append(stack, entry{e.node.ChildA, e.depth + 1}, entry{e.node.ChildB, e.depth + 1})
	}
	return stats
}

// Build a tabular representation of the hierarchy statistics.
func (s Stats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Nodes", fmt.Sprintf("%d", s.Nodes)})
	table.Append([]string{"Leaves", fmt.Sprintf("%d", s.Leaves)})
	table.Append([]string{"Internal nodes", fmt.Sprintf("%d", s.Nodes-s.Leaves)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", s.MaxDepth)})

	table.Render()
	return buf.String()
}
