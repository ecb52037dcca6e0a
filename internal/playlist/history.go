package playlist

// shuffleHistoryCap bounds how many previously-visited indices are kept for
// backtracking in shuffle mode.
const shuffleHistoryCap = 50

// indexHistory is a fixed-capacity log of playlist indices. Once full, the
// oldest entry is evicted, so the bound is structural rather than checked at
// every call site.
type indexHistory struct {
	entries []int
	cap     int
}

func newIndexHistory(capacity int) *indexHistory {
	return &indexHistory{
		entries: make([]int, 0, capacity),
		cap:     capacity,
	}
}

// Push appends an index, evicting the oldest entry when over capacity.
func (h *indexHistory) Push(idx int) {
	h.entries = append(h.entries, idx)
	if len(h.entries) > h.cap {
		h.entries = h.entries[len(h.entries)-h.cap:]
	}
}

// Pop removes and returns the most recent index.
func (h *indexHistory) Pop() (int, bool) {
	if len(h.entries) == 0 {
		return 0, false
	}
	idx := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return idx, true
}

func (h *indexHistory) Len() int {
	return len(h.entries)
}

func (h *indexHistory) Clear() {
	h.entries = h.entries[:0]
}

// Snapshot returns a copy of the history, oldest first.
func (h *indexHistory) Snapshot() []int {
	out := make([]int, len(h.entries))
	copy(out, h.entries)
	return out
}

// Restore replaces the history contents, trimming to capacity from the front.
func (h *indexHistory) Restore(entries []int) {
	h.entries = h.entries[:0]
	for _, idx := range entries {
		h.Push(idx)
	}
}
