package playlist

import (
	"math/rand/v2"

	"github.com/Joselma-Jemk/pyplayer/internal/video"
)

// Outcome classifies a navigation result. Running off the end of a
// sequential playlist is a normal outcome, not an error.
type Outcome int

const (
	// OutcomeFound means a video was selected and the cursor moved to it.
	OutcomeFound Outcome = iota
	// OutcomeEndOfPlaylist means the current mode has nothing further to play.
	OutcomeEndOfPlaylist
	// OutcomeEmpty means the playlist has no videos at all.
	OutcomeEmpty
)

// NavResult is the result of a Next or Previous call. Index is -1 unless
// Outcome is OutcomeFound.
type NavResult struct {
	Outcome Outcome
	Video   *video.Video
	Index   int
}

func found(v *video.Video, idx int) NavResult {
	return NavResult{Outcome: OutcomeFound, Video: v, Index: idx}
}

var (
	endOfPlaylist = NavResult{Outcome: OutcomeEndOfPlaylist, Index: -1}
	emptyPlaylist = NavResult{Outcome: OutcomeEmpty, Index: -1}
)

// Next advances to the next video under the active mode and persists the new
// cursor. Sequential mode stops at the end rather than wrapping.
func (p *Playlist) Next() NavResult {
	if len(p.videos) == 0 {
		return emptyPlaylist
	}
	current := p.CurrentIndex()

	var res NavResult
	switch p.mode {
	case ModeSequential:
		res = p.nextSequential(current)
	case ModeLoopOne:
		res = p.sameOrFirst(current)
	case ModeLoopAll:
		res = found(p.videos[(current+1)%len(p.videos)], (current+1)%len(p.videos))
	case ModeShuffle:
		res = p.nextShuffle(current)
	default:
		return endOfPlaylist
	}
	if res.Outcome != OutcomeFound {
		return res
	}

	if p.mode != ModeShuffle {
		p.linearIndex = res.Index
	}
	p.state.setIndex(res.Index, res.Video.Path)
	p.state.Playing = true
	p.state.Mode = p.mode
	p.state.TotalVideos = len(p.videos)
	p.state.TotalDuration = p.TotalDuration()
	p.autosave()
	return res
}

// Previous steps back under the active mode. In shuffle mode it retraces the
// actual visit order before falling back to the permutation order.
func (p *Playlist) Previous() NavResult {
	if len(p.videos) == 0 {
		return emptyPlaylist
	}
	current := p.CurrentIndex()

	var res NavResult
	switch p.mode {
	case ModeSequential:
		if current <= 0 {
			return endOfPlaylist
		}
		res = found(p.videos[current-1], current-1)
	case ModeLoopOne:
		res = p.sameOrFirst(current)
	case ModeLoopAll:
		prev := current - 1
		if current <= 0 {
			prev = len(p.videos) - 1
		}
		res = found(p.videos[prev], prev)
	case ModeShuffle:
		res = p.previousShuffle()
	default:
		return endOfPlaylist
	}
	if res.Outcome != OutcomeFound {
		return res
	}

	if p.mode != ModeShuffle {
		p.linearIndex = res.Index
	}
	p.state.setIndex(res.Index, res.Video.Path)
	p.autosave()
	return res
}

// nextSequential stops at the end of the playlist; the caller must not wrap.
func (p *Playlist) nextSequential(current int) NavResult {
	next := current + 1
	if next >= len(p.videos) {
		return endOfPlaylist
	}
	return found(p.videos[next], next)
}

// sameOrFirst implements loop-one for both directions: repeat the current
// entry, or jump to the first when nothing is active.
func (p *Playlist) sameOrFirst(current int) NavResult {
	if current < 0 || current >= len(p.videos) {
		return found(p.videos[0], 0)
	}
	return found(p.videos[current], current)
}

// nextShuffle consumes the shuffle order position by position, regenerating
// a fresh permutation when the order is missing or exhausted. The previously
// current index is pushed onto the history so Previous can retrace it.
func (p *Playlist) nextShuffle(current int) NavResult {
	if len(p.shuffleOrder) == 0 {
		p.generateShuffleOrder()
		if len(p.shuffleOrder) == 0 {
			return endOfPlaylist
		}
	}

	p.shufflePos++
	if p.shufflePos >= len(p.shuffleOrder) {
		p.generateShuffleOrder()
		p.shufflePos = 0
	}

	idx := p.shuffleOrder[p.shufflePos]
	if idx < 0 || idx >= len(p.videos) {
		return endOfPlaylist
	}

	if current >= 0 {
		p.shuffleHist.Push(current)
	}
	return found(p.videos[idx], idx)
}

// previousShuffle pops the visit history first; with no history it walks the
// current order backwards.
func (p *Playlist) previousShuffle() NavResult {
	if prev, ok := p.shuffleHist.Pop(); ok {
		if prev >= 0 && prev < len(p.videos) {
			p.shufflePos = p.historyPosition(prev)
			return found(p.videos[prev], prev)
		}
	}

	if len(p.shuffleOrder) > 0 && p.shufflePos > 0 {
		p.shufflePos--
		idx := p.shuffleOrder[p.shufflePos]
		if idx >= 0 && idx < len(p.videos) {
			return found(p.videos[idx], idx)
		}
	}
	return endOfPlaylist
}

// historyPosition resyncs the shuffle cursor after a history jump: the popped
// index's position in the order when present, otherwise one step back.
func (p *Playlist) historyPosition(idx int) int {
	for pos, v := range p.shuffleOrder {
		if v == idx {
			return pos
		}
	}
	return max(0, p.shufflePos-1)
}

// generateShuffleOrder builds a fresh uniform permutation of all indices and
// resets the shuffle cursor and history. To avoid an audible double play at
// the seam between two passes, the new first element is swapped away when it
// matches the previous order's last element; playlists shorter than two
// entries skip the adjustment.
func (p *Playlist) generateShuffleOrder() {
	n := len(p.videos)
	if n == 0 {
		p.shuffleOrder = nil
		p.shufflePos = -1
		p.shuffleHist.Clear()
		return
	}

	order := rand.Perm(n)
	if n > 1 && len(p.shuffleOrder) > 0 && order[0] == p.shuffleOrder[len(p.shuffleOrder)-1] {
		swap := 1 + rand.IntN(n-1)
		order[0], order[swap] = order[swap], order[0]
	}

	p.shuffleOrder = order
	p.shufflePos = -1
	p.shuffleHist.Clear()
}

// SetPlayMode switches the play mode while keeping the currently playing
// entry active across the transition. Switching to the mode already active is
// a no-op. If the transition leaves the cursors in an inconsistent state the
// playlist falls back to sequential mode with everything cleared, so a cursor
// can never survive pointing at stale data.
func (p *Playlist) SetPlayMode(mode PlayMode) {
	if mode == p.mode {
		return
	}

	// Dereference under the old mode before tearing anything down.
	preserved := p.CurrentIndex()
	old := p.mode
	p.mode = mode
	p.state.Mode = mode
	if preserved >= 0 {
		p.state.setIndex(preserved, p.pathAt(preserved))
	}

	switch {
	case mode == ModeShuffle:
		p.generateShuffleOrder()
		if preserved >= 0 && len(p.shuffleOrder) > 0 {
			p.shufflePos = p.shuffleOrderPosition(preserved)
		} else {
			p.shufflePos = -1
		}
	case old == ModeShuffle:
		p.shuffleOrder = nil
		p.shuffleHist.Clear()
		p.shufflePos = -1
		p.linearIndex = preserved
	}

	if !p.cursorsConsistent() {
		p.resetToSafeDefaults()
	}
	p.autosave()
}

// cursorsConsistent checks the structural invariants the projection relies on.
func (p *Playlist) cursorsConsistent() bool {
	if p.linearIndex < -1 || p.linearIndex > len(p.videos) {
		return false
	}
	if p.mode != ModeShuffle {
		return true
	}
	if p.shufflePos >= len(p.shuffleOrder) {
		return false
	}
	seen := make(map[int]bool, len(p.shuffleOrder))
	for _, idx := range p.shuffleOrder {
		if idx < 0 || idx >= len(p.videos) || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// resetToSafeDefaults forces the playlist back to a known-good state:
// sequential mode, no cursor, no shuffle state, playback cleared.
func (p *Playlist) resetToSafeDefaults() {
	p.log.Warn("inconsistent cursor state, resetting playlist to defaults", "playlist", p.id)
	p.mode = ModeSequential
	p.linearIndex = -1
	p.shuffleOrder = nil
	p.shufflePos = -1
	p.shuffleHist.Clear()
	p.state.resetPlayback()
	p.state.Mode = ModeSequential
}
