package application

// subgroupGraph indexes run-group subgroup references as a directed graph
// for cycle detection. Nodes keep document order and edges keep listed
// order, so the first cycle reported is deterministic for a given document.
type subgroupGraph struct {
	// order lists run-group names in document order.
	order []string
	// edges maps each run group to its listed subgroups.
	edges map[string][]string
}

// newSubgroupGraph builds the subgroup graph for a document's run groups.
// References to unknown run groups are kept out of the walk; the semantic
// validator reports those as dangling references before cycles are checked.
func newSubgroupGraph(groups []RunGroupSpec) *subgroupGraph {
	g := &subgroupGraph{
		order: make([]string, 0, len(groups)),
		edges: make(map[string][]string, len(groups)),
	}
	for _, group := range groups {
		g.order = append(g.order, group.Name)
		g.edges[group.Name] = group.Subgroups
	}
	return g
}

// Colors for depth-first cycle detection.
// White (0): unvisited, Gray (1): visiting, Black (2): visited.
const (
	colorWhite = iota
	colorGray
	colorBlack
)

// findCycle performs depth-first search with three-color node marking to
// locate a back edge. It returns the cycle as a path that ends where it
// starts, e.g. ["a", "b", "a"], or nil when the graph is acyclic.
func (g *subgroupGraph) findCycle() []string {
	colors := make(map[string]int, len(g.order))
	var stack []string
	var cycle []string

	var dfs func(node string) bool
	dfs = func(node string) bool {
		colors[node] = colorGray
		stack = append(stack, node)

		for _, next := range g.edges[node] {
			if _, known := g.edges[next]; !known {
				continue
			}
			switch colors[next] {
			case colorGray:
				// Back edge: the cycle is the stack from next onward,
				// closed with next itself.
				start := 0
				for i, name := range stack {
					if name == next {
						start = i
						break
					}
				}
				cycle = append(append([]string(nil), stack[start:]...), next)
				return true
			case colorWhite:
				if dfs(next) {
					return true
				}
			}
		}

		stack = stack[:len(stack)-1]
		colors[node] = colorBlack
		return false
	}

	for _, node := range g.order {
		if colors[node] == colorWhite && dfs(node) {
			return cycle
		}
	}
	return nil
}
