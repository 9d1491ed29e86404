package component

import "github.com/milk9111/skirmish/common"

// Transform places an entity on the map. Position is the entity centre.
type Transform struct {
	Position common.Point
	Size     common.Size
}

// Rect returns the entity bounds.
func (t *Transform) Rect() common.Rect {
	return common.RectAround(t.Position, t.Size)
}

var TransformComponent = NewComponent[Transform]()
