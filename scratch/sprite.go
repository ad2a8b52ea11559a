package scratch

import "math"

// RotationStyle controls how a sprite's costume is transformed by its
// direction (§3 "Sprite").
type RotationStyle int

const (
	RotationAllAround RotationStyle = iota
	RotationLeftRight
	RotationDoNotRotate
)

func (r RotationStyle) String() string {
	switch r {
	case RotationLeftRight:
		return "left-right"
	case RotationDoNotRotate:
		return "don't rotate"
	default:
		return "all around"
	}
}

// ParseRotationStyle maps a project.json string onto a RotationStyle,
// defaulting to all-around for unrecognized values (mirrors the reference's
// setRotationStyle(string) fallthrough).
func ParseRotationStyle(s string) RotationStyle {
	switch s {
	case "left-right":
		return RotationLeftRight
	case "don't rotate":
		return RotationDoNotRotate
	default:
		return RotationAllAround
	}
}

// Sprite is a Target refinement carrying visual/physical state and clone
// bookkeeping (§3 "Sprite", "Lifecycles").
type Sprite struct {
	Target

	iface ISpriteHandler

	visible       bool
	x             float64
	y             float64
	size          float64
	direction     float64
	draggable     bool
	rotationStyle RotationStyle

	effects map[string]float64

	cloneRoot   *Sprite
	cloneParent *Sprite
	children    []*Sprite
}

// NewSprite constructs a Sprite with the reference's defaults: visible,
// size 100, direction 90 (facing right), all-around rotation.
func NewSprite(id, name string) *Sprite {
	return &Sprite{
		Target:        *NewTarget(id, name, false),
		visible:       true,
		size:          100,
		direction:     90,
		rotationStyle: RotationAllAround,
	}
}

// AsTarget exposes the embedded Target so Target.blockSource() can read
// through an ITarget held as an interface value.
func (s *Sprite) AsTarget() *Target { return &s.Target }

func (s *Sprite) SetInterface(iface ISpriteHandler) {
	s.iface = iface
	if iface != nil {
		iface.OnSpriteChanged(s)
	}
}

func (s *Sprite) Visible() bool { return s.visible }
func (s *Sprite) SetVisible(v bool) {
	s.visible = v
	if s.iface != nil {
		s.iface.OnVisibleChanged(v)
	}
}

func (s *Sprite) X() float64 { return s.x }
func (s *Sprite) SetX(x float64) {
	s.x = x
	if s.iface != nil {
		s.iface.OnXChanged(x)
	}
}

func (s *Sprite) Y() float64 { return s.y }
func (s *Sprite) SetY(y float64) {
	s.y = y
	if s.iface != nil {
		s.iface.OnYChanged(y)
	}
}

func (s *Sprite) Size() float64 { return s.size }
func (s *Sprite) SetSize(size float64) {
	s.size = size
	if s.iface != nil {
		s.iface.OnSizeChanged(size)
	}
}

func (s *Sprite) Direction() float64 { return s.direction }

// SetDirection canonicalizes newDirection into (-180, 180] before storing it
// (§8 example scenario 1: "setting direction to 270 stores it as -90").
func (s *Sprite) SetDirection(newDirection float64) {
	d := math.Mod(newDirection, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	s.direction = d
	if s.iface != nil {
		s.iface.OnDirectionChanged(d)
	}
}

func (s *Sprite) Draggable() bool     { return s.draggable }
func (s *Sprite) SetDraggable(d bool) { s.draggable = d }

func (s *Sprite) RotationStyle() RotationStyle { return s.rotationStyle }
func (s *Sprite) SetRotationStyle(r RotationStyle) {
	s.rotationStyle = r
	if s.iface != nil {
		s.iface.OnRotationStyleChanged(r)
	}
}

// Effect returns the current value of the named graphics effect, or 0 if it
// has never been set (or was cleared by setting it to 0 — §3 invariant: the
// map never retains zero-valued entries).
func (s *Sprite) Effect(name string) float64 {
	return s.effects[name]
}

// SetEffect stores v under name, deleting the entry entirely when v is 0.
func (s *Sprite) SetEffect(name string, v float64) {
	if v == 0 {
		delete(s.effects, name)
		return
	}
	if s.effects == nil {
		s.effects = make(map[string]float64)
	}
	s.effects[name] = v
}

// ChangeEffect adds delta to the named effect's current value.
func (s *Sprite) ChangeEffect(name string, delta float64) {
	s.SetEffect(name, s.Effect(name)+delta)
}

// ClearEffects removes every graphics effect ("clear graphic effects" block).
func (s *Sprite) ClearEffects() {
	s.effects = nil
}

// IsClone reports whether this sprite was produced by Clone rather than
// being an original project sprite.
func (s *Sprite) IsClone() bool { return s.cloneParent != nil }

// CloneRoot returns the original (non-clone) sprite this clone descends
// from, or nil if this isn't a clone.
func (s *Sprite) CloneRoot() *Sprite { return s.cloneRoot }

// CloneParent returns the sprite or clone this clone was directly created
// from, or nil if this isn't a clone.
func (s *Sprite) CloneParent() *Sprite { return s.cloneParent }

// Children returns this sprite's direct clones.
func (s *Sprite) Children() []*Sprite { return s.children }

// AllChildren returns every descendant clone, recursively.
func (s *Sprite) AllChildren() []*Sprite {
	var out []*Sprite
	for _, c := range s.children {
		out = append(out, c)
		out = append(out, c.AllChildren()...)
	}
	return out
}

// Detach removes s from its clone parent's children list, mirroring the
// reference's destructor behavior (~Sprite calls cloneParent->removeClone).
// The engine calls this from DeinitClone.
func (s *Sprite) Detach() {
	if s.cloneParent != nil {
		s.cloneParent.removeClone(s)
	}
}

func (s *Sprite) removeClone(c *Sprite) {
	for i, child := range s.children {
		if child == c {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

// Clone creates a new sprite sharing this sprite's scripts and assets
// (through DataSource) while deep-copying variables and lists, and
// instantiates its "when I start as a clone" hats (§3 "Lifecycles",
// grounded on Sprite::clone in the reference). It returns nil if the
// engine has reached its clone limit or this sprite has no engine set.
func (s *Sprite) Clone(newID string) *Sprite {
	eng := s.Engine()
	if eng == nil {
		return nil
	}
	if !eng.RegisterClone() {
		return nil
	}

	clone := NewSprite(newID, s.Name())

	if s.cloneRoot == nil {
		clone.cloneRoot = s
	} else {
		clone.cloneRoot = s.cloneRoot
	}
	clone.cloneParent = s
	s.children = append(s.children, clone)

	for _, v := range s.Variables() {
		clone.AddVariable(NewVariableWithValue(v.Id(), v.Name(), v.Value()))
	}
	for _, l := range s.Lists() {
		clone.AddList(l.Clone())
	}

	clone.SetDataSource(s.dataSourceForClone())
	clone.SetCostumeIndex(s.CostumeIndex())
	clone.SetLayerOrder(s.LayerOrder())
	clone.SetVolume(s.Volume())
	clone.SetEngine(eng)

	clone.visible = s.visible
	clone.x = s.x
	clone.y = s.y
	clone.size = s.size
	clone.direction = s.direction
	clone.draggable = s.draggable
	clone.rotationStyle = s.rotationStyle
	for k, v := range s.effects {
		clone.SetEffect(k, v)
	}

	eng.InitClone(clone)

	if s.iface != nil {
		s.iface.OnCloned(clone)
	}

	return clone
}

// dataSourceForClone returns the ITarget whose blocks/costumes/sounds a new
// clone of s should read through: s itself, unless s is already reading
// through some other data source (the reference always points clones at the
// original, non-clone sprite).
func (s *Sprite) dataSourceForClone() ITarget {
	if s.DataSource() != nil {
		return s.DataSource()
	}
	return s
}
