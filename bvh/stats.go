package bvh

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Stats describes the shape of a built tree.
type Stats struct {
	Primitives    int           `json:"primitives"`
	Nodes         int           `json:"nodes"`
	Leaves        int           `json:"leaves"`
	MaxDepth      int           `json:"max_depth"`
	MaxLeafSize   int           `json:"max_leaf_size"`
	AvgLeafSize   float64       `json:"avg_leaf_size"`
	AbortedSplits int           `json:"aborted_splits"`
	BuildTime     time.Duration `json:"build_time_ns"`
}

// Get tree statistics.
func (t *Tree) Stats() Stats {
	return t.stats
}

func (t *Tree) collectStats() Stats {
	stats := Stats{
		Primitives: len(t.perm),
		Nodes:      len(t.nodes),
	}

	type entry struct {
		index uint32
		depth int
	}
	stack := []entry{{0, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if e.depth > stats.MaxDepth {
			stats.MaxDepth = e.depth
		}

		node := &t.nodes[e.index]
		if node.IsLeaf() {
			stats.Leaves++
			if int(node.Count) > stats.MaxLeafSize {
				stats.MaxLeafSize = int(node.Count)
			}
			continue
		}
		stack = append(stack, entry{node.Left, e.depth + 1}, entry{node.Right, e.depth + 1})
	}

	if stats.Leaves > 0 {
		stats.AvgLeafSize = float64(stats.Primitives) / float64(stats.Leaves)
	}
	return stats
}

// Build a tabular representation of the tree statistics.
func (s Stats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Primitives", fmt.Sprintf("%d", s.Primitives)})
	table.Append([]string{"Nodes", fmt.Sprintf("%d", s.Nodes)})
	table.Append([]string{"Leaves", fmt.Sprintf("%d", s.Leaves)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", s.MaxDepth)})
	table.Append([]string{"Max leaf size", fmt.Sprintf("%d", s.MaxLeafSize)})
	table.Append([]string{"Avg leaf size", fmt.Sprintf("%.2f", s.AvgLeafSize)})
	table.Append([]string{"Aborted splits", fmt.Sprintf("%d", s.AbortedSplits)})
	table.SetFooter([]string{"Build time", s.BuildTime.String()})

	table.Render()
	return buf.String()
}
