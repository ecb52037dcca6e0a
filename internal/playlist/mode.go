package playlist

// PlayMode defines how the playlist picks the next and previous video.
type PlayMode int

const (
	// ModeSequential plays entries in order and stops at the end.
	ModeSequential PlayMode = iota
	// ModeLoopOne repeats the current entry forever.
	ModeLoopOne
	// ModeLoopAll wraps around at both ends of the playlist.
	ModeLoopAll
	// ModeShuffle plays a random permutation, with history-based backtracking.
	ModeShuffle
)

// String returns the mode's wire name, as stored in playlist documents.
func (m PlayMode) String() string {
	switch m {
	case ModeSequential:
		return "normal"
	case ModeLoopOne:
		return "loop_one"
	case ModeLoopAll:
		return "loop_all"
	case ModeShuffle:
		return "shuffle"
	default:
		return "normal"
	}
}

// ParseMode maps a wire name back to a mode. Unknown names fall back to
// sequential so a damaged document still loads.
func ParseMode(s string) PlayMode {
	switch s {
	case "loop_one":
		return ModeLoopOne
	case "loop_all":
		return ModeLoopAll
	case "shuffle":
		return ModeShuffle
	default:
		return ModeSequential
	}
}
