package eval

// Binding associates a label name with an integer, typically the number of
// point shapes in one annotation that carry that label.
type Binding struct {
	Label string
	Count int64
}

// Bindings is the environment a rule expression evaluates against. It is an
// ordered list rather than a map: lookups scan from the end, so when the same
// label is bound twice the later binding wins.
type Bindings []Binding

// Add appends a binding. It never merges; callers that want last-write-wins
// semantics get them from Lookup's reverse scan.
func (b *Bindings) Add(label string, count int64) {
	*b = append(*b, Binding{Label: label, Count: count})
}

// Lookup resolves a label to its bound count. Unbound labels read as zero;
// a rule that references a label the annotation never uses compares against 0
// instead of failing.
func (b Bindings) Lookup(name string) int64 {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i].Label == name {
			return b[i].Count
		}
	}
	return 0
}
