package engine

import "github.com/chazu/maggie/scratch"

// spriteOrder returns every non-stage target sorted by current LayerOrder
// ascending (§4.4 "Layer ordering": stage is always 0, sprites occupy
// 1..N contiguously).
func (e *Engine) spriteOrder() []scratch.ITarget {
	var sprites []scratch.ITarget
	for _, t := range e.targets {
		if !t.IsStage() {
			sprites = append(sprites, t)
		}
	}
	for i := 1; i < len(sprites); i++ {
		j := i
		for j > 0 && sprites[j-1].LayerOrder() > sprites[j].LayerOrder() {
			sprites[j-1], sprites[j] = sprites[j], sprites[j-1]
			j--
		}
	}
	return sprites
}

func reassignLayers(order []scratch.ITarget) {
	for i, s := range order {
		s.SetLayerOrder(i + 1)
	}
}

func removeSprite(order []scratch.ITarget, target scratch.ITarget) ([]scratch.ITarget, int) {
	for i, s := range order {
		if s == target {
			return append(order[:i:i], order[i+1:]...), i
		}
	}
	return order, -1
}

func insertSprite(order []scratch.ITarget, i int, target scratch.ITarget) []scratch.ITarget {
	if i < 0 {
		i = 0
	}
	if i > len(order) {
		i = len(order)
	}
	order = append(order, nil)
	copy(order[i+1:], order[i:])
	order[i] = target
	return order
}

// MoveSpriteToFront moves target to the highest layer order; every other
// sprite's relative order is preserved (§4.4, §8 scenario 4). A single-
// sprite project or a target already in front is a no-op.
func (e *Engine) MoveSpriteToFront(target scratch.ITarget) {
	order, idx := removeSprite(e.spriteOrder(), target)
	if idx < 0 {
		return
	}
	order = insertSprite(order, len(order), target)
	reassignLayers(order)
}

// MoveSpriteToBack moves target to the lowest layer order (just above the
// stage).
func (e *Engine) MoveSpriteToBack(target scratch.ITarget) {
	order, idx := removeSprite(e.spriteOrder(), target)
	if idx < 0 {
		return
	}
	order = insertSprite(order, 0, target)
	reassignLayers(order)
}

// MoveSpriteForwardLayers shifts target toward the front by n slots,
// clamped at the front.
func (e *Engine) MoveSpriteForwardLayers(target scratch.ITarget, n int) {
	full := e.spriteOrder()
	order, idx := removeSprite(full, target)
	if idx < 0 {
		return
	}
	dest := idx + n
	if dest > len(order) {
		dest = len(order)
	}
	if dest < 0 {
		dest = 0
	}
	order = insertSprite(order, dest, target)
	reassignLayers(order)
}

// MoveSpriteBackwardLayers shifts target toward the back by n slots,
// clamped at the back.
func (e *Engine) MoveSpriteBackwardLayers(target scratch.ITarget, n int) {
	e.MoveSpriteForwardLayers(target, -n)
}

// MoveSpriteBehindOther positions target immediately behind other in layer
// order (used when placing a new clone "immediately behind its parent",
// §4.4 "Clones").
func (e *Engine) MoveSpriteBehindOther(target, other scratch.ITarget) {
	order, idx := removeSprite(e.spriteOrder(), target)
	if idx < 0 {
		return
	}
	dest := -1
	for i, s := range order {
		if s == other {
			dest = i
			break
		}
	}
	if dest < 0 {
		return
	}
	order = insertSprite(order, dest, target)
	reassignLayers(order)
}
