// Package sprites resolves animation frames for a sheet, a sequence and a
// facing. The combat code only sees the FramesFor lookup.
package sprites

import (
	"fmt"

	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs/component"
)

// Frame is a rectangle of a sheet image.
type Frame = component.Frame

// Sequence is one named animation. Directional sequences hold one strip per
// facing; plain sequences reuse the same strip for every facing.
type Sequence struct {
	Name        string
	TicksPer    int
	Loop        bool
	Frames      []Frame
	Directional map[common.Direction][]Frame
}

// FramesFor returns the strip for d, falling back to the shared strip and
// then to the South strip.
func (s *Sequence) FramesFor(d common.Direction) ([]Frame, bool) {
	if s == nil {
		return nil, false
	}
	if frames, ok := s.Directional[d]; ok && len(frames) > 0 {
		return cloneFrames(frames), true
	}
	if len(s.Frames) > 0 {
		return cloneFrames(s.Frames), true
	}
	if frames, ok := s.Directional[common.South]; ok && len(frames) > 0 {
		return cloneFrames(frames), true
	}
	return nil, false
}

// Sheet groups sequences cut from a single image.
type Sheet struct {
	Name      string
	Image     string
	Sequences map[string]*Sequence
}

// Library is the set of sheets known to a session.
type Library struct {
	sheets map[string]*Sheet
}

func NewLibrary() *Library {
	return &Library{sheets: make(map[string]*Sheet)}
}

// Register adds or replaces a sheet.
func (l *Library) Register(sheet *Sheet) {
	if l == nil || sheet == nil || sheet.Name == "" {
		return
	}
	if l.sheets == nil {
		l.sheets = make(map[string]*Sheet)
	}
	l.sheets[sheet.Name] = sheet
}

func (l *Library) Sheet(name string) (*Sheet, bool) {
	if l == nil {
		return nil, false
	}
	s, ok := l.sheets[name]
	return s, ok
}

// Sequence looks up a sequence by sheet and name.
func (l *Library) Sequence(sheet, sequence string) (*Sequence, bool) {
	s, ok := l.Sheet(sheet)
	if !ok {
		return nil, false
	}
	seq, ok := s.Sequences[sequence]
	return seq, ok && seq != nil
}

// FramesFor returns the frames of sequence on sheet for facing d. The
// returned slice is a copy owned by the caller.
func (l *Library) FramesFor(sheet, sequence string, d common.Direction) ([]Frame, bool) {
	seq, ok := l.Sequence(sheet, sequence)
	if !ok {
		return nil, false
	}
	return seq.FramesFor(d)
}

// TicksPerFrame returns the playback rate of a sequence, 1 when unknown.
func (l *Library) TicksPerFrame(sheet, sequence string) int {
	seq, ok := l.Sequence(sheet, sequence)
	if !ok || seq.TicksPer < 1 {
		return 1
	}
	return seq.TicksPer
}

// Names returns the registered sheet names.
func (l *Library) Names() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.sheets))
	for name := range l.sheets {
		out = append(out, name)
	}
	return out
}

func (l *Library) String() string {
	if l == nil {
		return "sprites.Library(nil)"
	}
	return fmt.Sprintf("sprites.Library(%d sheets)", len(l.sheets))
}

func cloneFrames(in []Frame) []Frame {
	out := make([]Frame, len(in))
	copy(out, in)
	return out
}
