package pipeline

import (
	"sort"
	"strings"
)

// findCycle runs a deterministic three-color DFS over the artifact-type
// graph induced by the definitions (an edge per required type to each
// produced type of the same stage). It returns one cycle path as a stable
// witness, or nil when the graph is acyclic.
func findCycle(defs []Definition) []string {
	edges := map[string][]string{}
	nodes := map[string]bool{}
	for _, def := range defs {
		for _, req := range def.Requires {
			nodes[req] = true
			for _, prod := range def.Produces {
				nodes[prod] = true
				edges[req] = append(edges[req], prod)
			}
		}
		for _, prod := range def.Produces {
			nodes[prod] = true
		}
	}

	ordered := make([]string, 0, len(nodes))
	for n := range nodes {
		ordered = append(ordered, n)
	}
	sort.Strings(ordered)
	for _, out := range edges {
		sort.Strings(out)
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var stack []string

	var visit func(n string) []string
	visit = func(n string) []string {
		color[n] = gray
		stack = append(stack, n)
		for _, next := range edges[n] {
			switch color[next] {
			case gray:
				// Close the loop at the first repeated node.
				for i, on := range stack {
					if on == next {
						return append(append([]string{}, stack[i:]...), next)
					}
				}
			case white:
				if path := visit(next); path != nil {
					return path
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return nil
	}

	for _, n := range ordered {
		if color[n] == white {
			if path := visit(n); path != nil {
				return path
			}
		}
	}
	return nil
}

func joinPath(path []string) string {
	return strings.Join(path, " -> ")
}
