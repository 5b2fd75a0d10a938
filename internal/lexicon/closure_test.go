package lexicon

import (
	"slices"
	"sync"
	"testing"
)

// graphFrom builds a graph whose synsets have the given member lemmas
// and hypernym edges.
func graphFrom(t *testing.T, lemmas map[string][]string, edges map[string][]string) *Graph {
	t.Helper()
	var res Resource
	for synset, words := range lemmas {
		for _, w := range words {
			res.Entries = append(res.Entries, RawEntry{
				WrittenForm: w,
				POS:         "n",
				Senses:      []RawSense{{ID: w + "-" + synset, Synset: synset}},
			})
		}
		res.Synsets = append(res.Synsets, RawSynset{ID: synset, Hypernyms: edges[synset]})
	}
	return BuildGraph(res)
}

func TestClosure_NoHypernyms(t *testing.T) {
	t.Parallel()

	g := graphFrom(t, map[string][]string{"S1": {"dog"}}, nil)
	if got := g.Closure("S1"); len(got) != 0 {
		t.Errorf("Closure(S1) = %v, want empty", got)
	}
}

func TestClosure_UnknownStart(t *testing.T) {
	t.Parallel()

	g := graphFrom(t, map[string][]string{"S1": {"dog"}}, nil)
	if got := g.Closure("missing"); len(got) != 0 {
		t.Errorf("Closure(missing) = %v, want empty", got)
	}
}

func TestClosure_Chain(t *testing.T) {
	t.Parallel()

	g := graphFrom(t,
		map[string][]string{
			"dog":    {"dog", "domestic dog"},
			"canine": {"canine", "canid"},
			"animal": {"animal"},
		},
		map[string][]string{
			"dog":    {"canine"},
			"canine": {"animal"},
		},
	)

	got := g.Closure("dog")
	slices.Sort(got)
	want := []string{"animal", "canid", "canine"}
	if !slices.Equal(got, want) {
		t.Errorf("Closure(dog) = %v, want %v", got, want)
	}
}

func TestClosure_CycleTerminates(t *testing.T) {
	t.Parallel()

	g := graphFrom(t,
		map[string][]string{"A": {"alpha"}, "B": {"beta"}},
		map[string][]string{"A": {"B"}, "B": {"A"}},
	)

	got := g.Closure("A")
	if !slices.Equal(got, []string{"beta"}) {
		t.Errorf("Closure(A) = %v, want [beta]", got)
	}
	got = g.Closure("B")
	if !slices.Equal(got, []string{"alpha"}) {
		t.Errorf("Closure(B) = %v, want [alpha]", got)
	}
}

func TestClosure_SelfLoop(t *testing.T) {
	t.Parallel()

	g := graphFrom(t,
		map[string][]string{"A": {"alpha"}},
		map[string][]string{"A": {"A"}},
	)

	if got := g.Closure("A"); len(got) != 0 {
		t.Errorf("Closure(A) = %v, want empty", got)
	}
}

func TestClosure_DanglingEdgeIsInert(t *testing.T) {
	t.Parallel()

	g := graphFrom(t,
		map[string][]string{"A": {"alpha"}, "B": {"beta"}},
		map[string][]string{"A": {"ghost", "B"}},
	)

	if got := g.Closure("A"); !slices.Equal(got, []string{"beta"}) {
		t.Errorf("Closure(A) = %v, want [beta]", got)
	}
}

func TestClosure_DiamondExpandsOnce(t *testing.T) {
	t.Parallel()

	// A -> B, A -> C, B -> D, C -> D: D is reachable twice but expanded once.
	g := graphFrom(t,
		map[string][]string{"A": {"a"}, "B": {"b"}, "C": {"c"}, "D": {"d"}},
		map[string][]string{"A": {"B", "C"}, "B": {"D"}, "C": {"D"}},
	)

	got := g.Closure("A")
	want := []string{"b", "d", "c"}
	if !slices.Equal(got, want) {
		t.Errorf("Closure(A) = %v, want %v (depth-first order)", got, want)
	}
}

func TestClosure_SharedLemmaKeepsMultiplicity(t *testing.T) {
	t.Parallel()

	g := graphFrom(t,
		map[string][]string{"A": {"a"}, "B": {"x"}, "C": {"x"}},
		map[string][]string{"A": {"B"}, "B": {"C"}},
	)

	if got := g.Closure("A"); !slices.Equal(got, []string{"x", "x"}) {
		t.Errorf("Closure(A) = %v, want [x x]", got)
	}
}

func TestClosure_ConcurrentCalls(t *testing.T) {
	t.Parallel()

	g := graphFrom(t,
		map[string][]string{"A": {"a"}, "B": {"b"}, "C": {"c"}},
		map[string][]string{"A": {"B"}, "B": {"C"}, "C": {"A"}},
	)

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := g.Closure("A")
			if !slices.Equal(got, []string{"b", "c"}) {
				errs <- "unexpected closure"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}
