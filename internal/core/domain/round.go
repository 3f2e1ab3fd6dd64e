package domain

// RoundID is the opaque round boundary marker supplied by the lottery
// engine. It is monotonically non-decreasing and only ever compared for
// equality or order, never interpreted arithmetically.
type RoundID uint64

func (r RoundID) Before(other RoundID) bool {
	return r < other
}
