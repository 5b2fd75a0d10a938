package lexicon

import "slices"

// Closure returns the lemmas of every sense reachable from senseID through
// one or more hypernym edges, depth first. The start sense contributes nothing
// and each reachable sense is expanded at most once, so the walk terminates on
// cycles and self-loops. Edges to unknown sense ids are ignored. A lemma reachable
// through several senses appears once per sense; callers deduplicate.
func (g *Graph) Closure(senseID string) []string {
	start, ok := g.senses[senseID]
	if !ok || len(start.Hypernyms) == 0 {
		return nil
	}

	visited := map[string]bool{senseID: true}
	var out []string

	// Targets are pushed in reverse so they pop in declaration order,
	// matching a recursive walk.
	stack := make([]string, 0, len(start.Hypernyms))
	stack = pushReversed(stack, start.Hypernyms)

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[id] {
			continue
		}
		visited[id] = true

		sense, ok := g.senses[id]
		if !ok {
			continue
		}
		out = append(out, sense.Lemmas...)
		stack = pushReversed(stack, sense.Hypernyms)
	}

	return out
}

func pushReversed(stack, ids []string) []string {
	for _, id := range slices.Backward(ids) {
		stack = append(stack, id)
	}
	return stack
}
