package component

// Frame is one cell of a sprite sheet.
type Frame struct {
	Image string
	X     int
	Y     int
	W     int
	H     int
}

// Animation plays a frame sequence at a fixed number of ticks per frame.
type Animation struct {
	Frames     []Frame
	Frame      int
	FrameTimer int
	TicksPer   int
	Loop       bool
	Playing    bool
}

// Current returns the frame on screen, if any.
func (a *Animation) Current() (Frame, bool) {
	if a == nil || len(a.Frames) == 0 {
		return Frame{}, false
	}
	idx := a.Frame
	if idx < 0 || idx >= len(a.Frames) {
		idx = len(a.Frames) - 1
	}
	return a.Frames[idx], true
}

var AnimationComponent = NewComponent[Animation]()
