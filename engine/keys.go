package engine

import "strings"

var arrowKeys = map[string]string{
	"up arrow":    "up arrow",
	"down arrow":  "down arrow",
	"left arrow":  "left arrow",
	"right arrow": "right arrow",
	"38":          "up arrow",
	"40":          "down arrow",
	"37":          "left arrow",
	"39":          "right arrow",
}

// canonicalKey normalises a key name the way §6 "Keycode canonicalisation"
// specifies: case-insensitive, "space" <-> "32", arrow-key aliases, and
// single letters/digits passed through folded to lower case.
func canonicalKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	switch k {
	case "space", "32":
		return "space"
	}
	if canon, ok := arrowKeys[k]; ok {
		return canon
	}
	return k
}

// SetKeyState records key as pressed or released (§6 "Input injection").
// Setting the same value twice is a no-op with respect to observable state
// (§8 "idempotence").
func (e *Engine) SetKeyState(key string, pressed bool) {
	k := canonicalKey(key)
	if pressed {
		e.keyState[k] = true
	} else {
		delete(e.keyState, k)
	}
}

// SetAnyKeyPressed overrides "any" independently of individual key state.
func (e *Engine) SetAnyKeyPressed(v bool) { e.anyKeyPressed = v }

// KeyPressed reports whether key (or the aggregate "any") is currently
// down (§6, §8 scenario 5 "key-press aggregation").
func (e *Engine) KeyPressed(key string) bool {
	if canonicalKey(key) == "any" {
		return e.anyKeyPressed || len(e.keyState) > 0
	}
	return e.keyState[canonicalKey(key)]
}

func (e *Engine) SetMouseX(x float64) { e.mouseX = x }
func (e *Engine) SetMouseY(y float64) { e.mouseY = y }
func (e *Engine) MouseX() float64     { return e.mouseX }
func (e *Engine) MouseY() float64     { return e.mouseY }

func (e *Engine) SetMousePressed(v bool) { e.mousePressed = v }
func (e *Engine) MousePressed() bool     { return e.mousePressed }
