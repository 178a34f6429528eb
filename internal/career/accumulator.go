package career

// entry is the running score and reasons for one title.
type entry struct {
	title   string
	score   float64
	reasons []string
	seen    map[string]struct{}
}

// accumulator is an insertion-ordered map from title to entry.
type accumulator struct {
	index   map[string]int
	entries []*entry
}

func newAccumulator() *accumulator {
	return &accumulator{index: make(map[string]int)}
}

// add credits score to title, creating the entry on first use, and records reason once.
func (a *accumulator) add(title string, score float64, reason string) {
	e := a.get(title)
	if e == nil {
		e = &entry{title: title, seen: make(map[string]struct{})}
		a.index[title] = len(a.entries)
		a.entries = append(a.entries, e)
	}
	if score > 0 {
		e.score += score
	}
	if reason == "" {
		return
	}
	if _, dup := e.seen[reason]; dup {
		return
	}
	e.seen[reason] = struct{}{}
	e.reasons = append(e.reasons, reason)
}

func (a *accumulator) get(title string) *entry {
	i, ok := a.index[title]
	if !ok {
		return nil
	}
	return a.entries[i]
}

// titles returns a snapshot of the accumulated titles in insertion order.
func (a *accumulator) titles() []string {
	out := make([]string, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.title
	}
	return out
}

func (a *accumulator) len() int {
	return len(a.entries)
}
