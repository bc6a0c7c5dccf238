package runner

import (
	"io"
	"sort"
	"sync"
)

type sinkEntry struct {
	text string
	emit bool
}

// OrderedSink reassembles per-file output lines into enumeration order while
// workers finish files in whatever order they like.
//
// Each enumerated file owns one slot id. A worker either Emits a line for its
// slot or Skips it; the sink writes a slot's line the moment every lower slot
// has been released. Slots still pending after the pool drains are written by
// FlushAll in ascending id order.
//
// Thread-safe: Emit and Skip may be called from any goroutine. Writes to the
// underlying writer happen under the sink's lock, one slot at a time. The
// first write error is sticky; later slots are dropped and the error is
// reported by FlushAll.
type OrderedSink struct {
	mu      sync.Mutex
	w       io.Writer
	next    int
	pending map[int]sinkEntry
	err     error
}

// NewOrderedSink creates a sink that writes lines to w. Slot ids start at 0.
func NewOrderedSink(w io.Writer) *OrderedSink {
	return &OrderedSink{w: w, pending: make(map[int]sinkEntry)}
}

// Emit schedules one output line for slot id. The sink appends the trailing
// newline.
func (s *OrderedSink) Emit(id int, line string) {
	s.release(id, sinkEntry{text: line, emit: true})
}

// Skip releases slot id without producing output, unblocking higher slots.
func (s *OrderedSink) Skip(id int) {
	s.release(id, sinkEntry{})
}

func (s *OrderedSink) release(id int, e sinkEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[id] = e
	for {
		e, ok := s.pending[s.next]
		if !ok {
			return
		}
		delete(s.pending, s.next)
		s.next++
		s.write(e)
	}
}

// write emits one entry. Callers must hold mu.
func (s *OrderedSink) write(e sinkEntry) {
	if !e.emit || s.err != nil {
		return
	}
	if _, err := io.WriteString(s.w, e.text+"\n"); err != nil {
		s.err = err
	}
}

// FlushAll writes any slots still pending, lowest id first, and returns the
// first write error the sink saw. Call after all workers have stopped.
func (s *OrderedSink) FlushAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		e := s.pending[id]
		delete(s.pending, id)
		if id >= s.next {
			s.next = id + 1
		}
		s.write(e)
	}
	return s.err
}
