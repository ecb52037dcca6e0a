package playlist

import (
	"testing"
)

func TestNextSequential(t *testing.T) {
	tests := []struct {
		name        string
		start       int
		wantOutcome Outcome
		wantIndex   int
	}{
		{"no cursor starts at zero", -1, OutcomeFound, 0},
		{"middle advances", 2, OutcomeFound, 3},
		{"last entry stops, never wraps", 4, OutcomeEndOfPlaylist, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPlaylist(t, 5)
			mustSetIndex(t, p, tt.start)

			res := p.Next()
			if res.Outcome != tt.wantOutcome || res.Index != tt.wantIndex {
				t.Errorf("Next() = {%v %d}, want {%v %d}",
					res.Outcome, res.Index, tt.wantOutcome, tt.wantIndex)
			}
		})
	}
}

func TestNextOnEmptyPlaylist(t *testing.T) {
	p := New(Options{})
	if res := p.Next(); res.Outcome != OutcomeEmpty {
		t.Errorf("Next() on empty = %v, want OutcomeEmpty", res.Outcome)
	}
	if res := p.Previous(); res.Outcome != OutcomeEmpty {
		t.Errorf("Previous() on empty = %v, want OutcomeEmpty", res.Outcome)
	}
}

func TestNextLoopAllWraps(t *testing.T) {
	p := newTestPlaylist(t, 5)
	p.SetPlayMode(ModeLoopAll)
	mustSetIndex(t, p, 4)

	res := p.Next()
	if res.Outcome != OutcomeFound || res.Index != 0 {
		t.Errorf("Next() from last in loop-all = {%v %d}, want {found 0}", res.Outcome, res.Index)
	}
	if res.Video != p.Video(0) {
		t.Error("wrapped result should be the first entry")
	}
}

func TestPreviousSequential(t *testing.T) {
	p := newTestPlaylist(t, 5)

	mustSetIndex(t, p, 0)
	if res := p.Previous(); res.Outcome != OutcomeEndOfPlaylist {
		t.Errorf("Previous() from first = %v, want end of playlist", res.Outcome)
	}

	mustSetIndex(t, p, 3)
	if res := p.Previous(); res.Index != 2 {
		t.Errorf("Previous() from 3 = %d, want 2", res.Index)
	}
}

func TestPreviousLoopAllWraps(t *testing.T) {
	p := newTestPlaylist(t, 5)
	p.SetPlayMode(ModeLoopAll)
	mustSetIndex(t, p, 0)

	if res := p.Previous(); res.Index != 4 {
		t.Errorf("Previous() from first in loop-all = %d, want 4", res.Index)
	}
}

func TestLoopOneRepeats(t *testing.T) {
	p := newTestPlaylist(t, 5)
	p.SetPlayMode(ModeLoopOne)
	mustSetIndex(t, p, 2)

	for i := 0; i < 3; i++ {
		if res := p.Next(); res.Index != 2 {
			t.Fatalf("Next() #%d = %d, want 2", i, res.Index)
		}
		if res := p.Previous(); res.Index != 2 {
			t.Fatalf("Previous() #%d = %d, want 2", i, res.Index)
		}
	}
}

func TestLoopOneWithoutCursorPicksFirst(t *testing.T) {
	p := newTestPlaylist(t, 3)
	p.SetPlayMode(ModeLoopOne)

	if res := p.Next(); res.Index != 0 {
		t.Errorf("Next() with no cursor = %d, want 0", res.Index)
	}
}

func TestShuffleCoversEveryIndexOnce(t *testing.T) {
	const n = 8
	p := newTestPlaylist(t, n)
	p.SetPlayMode(ModeShuffle)

	seen := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		res := p.Next()
		if res.Outcome != OutcomeFound {
			t.Fatalf("Next() #%d = %v, want found", i, res.Outcome)
		}
		if seen[res.Index] {
			t.Fatalf("index %d repeated before the order was exhausted", res.Index)
		}
		seen[res.Index] = true
	}
	if len(seen) != n {
		t.Errorf("one pass visited %d distinct indices, want %d", len(seen), n)
	}
}

func TestShufflePreviousRetracesHistory(t *testing.T) {
	p := newTestPlaylist(t, 6)
	p.SetPlayMode(ModeShuffle)

	first := p.Next()
	second := p.Next()
	if first.Outcome != OutcomeFound || second.Outcome != OutcomeFound {
		t.Fatal("setup navigation failed")
	}

	back := p.Previous()
	if back.Index != first.Index {
		t.Errorf("Previous() after Next() = %d, want the prior entry %d", back.Index, first.Index)
	}
	if p.CurrentIndex() != first.Index {
		t.Errorf("CurrentIndex() = %d, want %d after retrace", p.CurrentIndex(), first.Index)
	}
}

func TestShuffleSingleEntry(t *testing.T) {
	p := newTestPlaylist(t, 1)
	p.SetPlayMode(ModeShuffle)

	for i := 0; i < 3; i++ {
		if res := p.Next(); res.Outcome != OutcomeFound || res.Index != 0 {
			t.Fatalf("Next() #%d = {%v %d}, want {found 0}", i, res.Outcome, res.Index)
		}
	}
}

func TestShuffleRegeneratesAfterExhaustion(t *testing.T) {
	const n = 4
	p := newTestPlaylist(t, n)
	p.SetPlayMode(ModeShuffle)

	for i := 0; i < n; i++ {
		p.Next()
	}
	// Second pass starts a fresh permutation instead of stopping.
	res := p.Next()
	if res.Outcome != OutcomeFound {
		t.Errorf("Next() after exhaustion = %v, want found", res.Outcome)
	}
}

func TestGenerateShuffleOrderIsPermutation(t *testing.T) {
	p := newTestPlaylist(t, 10)
	p.SetPlayMode(ModeShuffle)

	for run := 0; run < 5; run++ {
		last := -1
		if len(p.shuffleOrder) > 0 {
			last = p.shuffleOrder[len(p.shuffleOrder)-1]
		}
		p.generateShuffleOrder()

		seen := make(map[int]bool)
		for _, idx := range p.shuffleOrder {
			if idx < 0 || idx >= p.Len() || seen[idx] {
				t.Fatalf("order %v is not a permutation", p.shuffleOrder)
			}
			seen[idx] = true
		}
		if last >= 0 && p.shuffleOrder[0] == last {
			t.Errorf("new order starts with previous order's last element %d", last)
		}
	}
}

func TestSetPlayModeIdempotent(t *testing.T) {
	p := newTestPlaylist(t, 5)
	mustSetIndex(t, p, 3)

	p.SetPlayMode(ModeSequential)
	if p.CurrentIndex() != 3 {
		t.Errorf("cursor moved on no-op mode switch: %d", p.CurrentIndex())
	}
}

func TestSetPlayModePreservesCurrent(t *testing.T) {
	p := newTestPlaylist(t, 5)
	mustSetIndex(t, p, 2)
	want := p.Video(2)

	p.SetPlayMode(ModeShuffle)
	if p.CurrentVideo() != want {
		t.Errorf("switch into shuffle lost the current entry")
	}

	p.SetPlayMode(ModeLoopAll)
	if p.CurrentVideo() != want {
		t.Errorf("switch out of shuffle lost the current entry")
	}
	if len(p.shuffleOrder) != 0 {
		t.Error("shuffle order should be cleared after leaving shuffle mode")
	}
}

func TestCurrentIndexInvariantAcrossOps(t *testing.T) {
	p := newTestPlaylist(t, 6)

	check := func(step string) {
		t.Helper()
		idx := p.CurrentIndex()
		if idx < -1 || idx >= p.Len() {
			t.Fatalf("after %s: CurrentIndex() = %d with %d entries", step, idx, p.Len())
		}
	}

	p.Next()
	check("next")
	p.SetPlayMode(ModeShuffle)
	check("shuffle on")
	p.Next()
	check("shuffle next")
	p.RemoveAt(0)
	check("remove")
	p.SetPlayMode(ModeLoopAll)
	check("shuffle off")
	p.Move(0, p.Len()-1)
	check("move")
	p.Clear(true)
	check("clear")
}
