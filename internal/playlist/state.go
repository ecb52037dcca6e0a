package playlist

// State captures the externally observable playback state of a playlist.
// It is what the UI reads to render "what is playing" and what gets embedded
// in the persisted document as playlist_state.
type State struct {
	PlaylistID       string
	Mode             PlayMode
	CurrentIndex     int
	CurrentVideoPath string
	TotalVideos      int
	TotalDuration    int64 // ms
	Playing          bool
	PlayHistory      []int
}

// HasVideo reports whether an entry is currently active.
func (s State) HasVideo() bool {
	return s.CurrentIndex >= 0 && s.CurrentVideoPath != ""
}

// LastPlayedIndex returns the most recently recorded index, -1 when the
// history is empty.
func (s State) LastPlayedIndex() int {
	if len(s.PlayHistory) == 0 {
		return -1
	}
	return s.PlayHistory[len(s.PlayHistory)-1]
}

// setIndex records a new current index, appending first-time visits to the
// play history.
func (s *State) setIndex(index int, path string) {
	s.CurrentIndex = index
	s.CurrentVideoPath = path
	if index >= 0 && !s.visited(index) {
		s.PlayHistory = append(s.PlayHistory, index)
	}
}

func (s *State) visited(index int) bool {
	for _, i := range s.PlayHistory {
		if i == index {
			return true
		}
	}
	return false
}

// resetPlayback clears the playback fields, keeping identity and history.
func (s *State) resetPlayback() {
	s.CurrentIndex = -1
	s.CurrentVideoPath = ""
	s.Playing = false
}
