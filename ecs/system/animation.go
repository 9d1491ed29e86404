package system

import (
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.AnimationComponent.Kind(), func(e ecs.Entity, anim *component.Animation) {
		if anim == nil || !anim.Playing || len(anim.Frames) == 0 {
			return
		}

		ticksPerFrame := anim.TicksPer
		if ticksPerFrame < 1 {
			ticksPerFrame = 1
		}

		anim.FrameTimer++
		if anim.FrameTimer < ticksPerFrame {
			return
		}
		anim.FrameTimer = 0
		anim.Frame++
		if anim.Frame >= len(anim.Frames) {
			if anim.Loop {
				anim.Frame = 0
			} else {
				anim.Frame = len(anim.Frames) - 1
				anim.Playing = false
			}
		}
	})
}
