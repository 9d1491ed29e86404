package sprites

import (
	"fmt"

	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/prefabs"
)

// LoadLibrary builds the library from the sheets prefab.
func LoadLibrary() (*Library, error) {
	spec, err := prefabs.LoadSheetsSpec()
	if err != nil {
		return nil, err
	}
	return FromSpec(spec)
}

// FromSpec cuts every sequence of every sheet into frames.
func FromSpec(spec *prefabs.SheetsSpec) (*Library, error) {
	lib := NewLibrary()
	if spec == nil {
		return lib, nil
	}
	for _, ss := range spec.Sheets {
		if ss.Name == "" {
			return nil, fmt.Errorf("sprites: sheet without name")
		}
		if ss.FrameW <= 0 || ss.FrameH <= 0 {
			return nil, fmt.Errorf("sprites: sheet %s: frame size %dx%d", ss.Name, ss.FrameW, ss.FrameH)
		}
		sheet := &Sheet{Name: ss.Name, Image: ss.Image, Sequences: make(map[string]*Sequence, len(ss.Sequences))}
		for _, seq := range ss.Sequences {
			if seq.Count <= 0 {
				return nil, fmt.Errorf("sprites: sheet %s sequence %s: no frames", ss.Name, seq.Name)
			}
			out := &Sequence{Name: seq.Name, TicksPer: seq.TicksPerFrame, Loop: seq.Loop}
			if out.TicksPer < 1 {
				out.TicksPer = 1
			}
			if seq.Directional {
				out.Directional = make(map[common.Direction][]Frame, len(common.Directions))
				for i, d := range common.Directions {
					out.Directional[d] = strip(ss, seq.Row+i, seq.Column, seq.Count)
				}
			} else {
				out.Frames = strip(ss, seq.Row, seq.Column, seq.Count)
			}
			sheet.Sequences[seq.Name] = out
		}
		lib.Register(sheet)
	}
	return lib, nil
}

func strip(ss prefabs.SheetSpec, row, col, count int) []Frame {
	frames := make([]Frame, 0, count)
	for i := 0; i < count; i++ {
		frames = append(frames, Frame{
			Image: ss.Image,
			X:     (col + i) * ss.FrameW,
			Y:     row * ss.FrameH,
			W:     ss.FrameW,
			H:     ss.FrameH,
		})
	}
	return frames
}
