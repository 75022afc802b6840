package dependency

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is returned when the dependency graph contains a cycle.
var ErrCycle = errors.New("dependency cycle detected")

// Edge states that To depends on From (From must come first).
type Edge struct {
	From string
	To   string
}

// Resolve orders nodes so that every edge source precedes its target and returns:
// - ordered: node names in topological order, stable with respect to the input order
// - tiers: node names grouped by depth (tier 0 = no incoming edges, tier 1 = depend only on tier 0, etc.)
// Edges naming unknown nodes and self-edges are ignored. A cycle yields an error wrapping
// ErrCycle that names the nodes left unordered.
func Resolve(nodes []string, edges []Edge) (ordered []string, tiers [][]string, err error) {
	if len(nodes) == 0 {
		return nil, nil, nil
	}

	nodeSet := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		nodeSet[n] = true
	}

	inDegree := make(map[string]int, len(nodes))
	for _, e := range edges {
		if !nodeSet[e.From] || !nodeSet[e.To] || e.From == e.To {
			continue
		}
		inDegree[e.To]++
	}

	var queue []string
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if inDegree[n] == 0 && !seen[n] {
			queue = append(queue, n)
			seen[n] = true
		}
	}

	ordered = make([]string, 0, len(nodeSet))
	for len(queue) > 0 {
		tier := make([]string, len(queue))
		copy(tier, queue)
		tiers = append(tiers, tier)
		var next []string
		for _, u := range queue {
			ordered = append(ordered, u)
			for _, e := range edges {
				if e.From != u || !nodeSet[e.To] || e.From == e.To {
					continue
				}
				inDegree[e.To]--
				if inDegree[e.To] == 0 {
					next = append(next, e.To)
				}
			}
		}
		queue = next
	}

	if len(ordered) != len(nodeSet) {
		done := make(map[string]bool, len(ordered))
		for _, n := range ordered {
			done[n] = true
		}
		var stuck []string
		for _, n := range nodes {
			if !done[n] && !seen[n] {
				stuck = append(stuck, n)
				seen[n] = true
			}
		}
		return nil, nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(stuck, ", "))
	}
	return ordered, tiers, nil
}
