// Package sdlinput translates SDL2 events into input events.
package sdlinput

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/raydemo/internal/engine/input"
)

var keys = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_W:      input.KeyW,
	sdl.SCANCODE_A:      input.KeyA,
	sdl.SCANCODE_S:      input.KeyS,
	sdl.SCANCODE_D:      input.KeyD,
	sdl.SCANCODE_Q:      input.KeyQ,
	sdl.SCANCODE_E:      input.KeyE,
	sdl.SCANCODE_Z:      input.KeyZ,
	sdl.SCANCODE_X:      input.KeyX,
	sdl.SCANCODE_UP:     input.KeyUp,
	sdl.SCANCODE_DOWN:   input.KeyDown,
	sdl.SCANCODE_LEFT:   input.KeyLeft,
	sdl.SCANCODE_RIGHT:  input.KeyRight,
	sdl.SCANCODE_R:      input.KeyR,
	sdl.SCANCODE_F:      input.KeyF,
	sdl.SCANCODE_C:      input.KeyC,
	sdl.SCANCODE_P:      input.KeyP,
	sdl.SCANCODE_SPACE:  input.KeySpace,
	sdl.SCANCODE_ESCAPE: input.KeyEscape,
	sdl.SCANCODE_F11:    input.KeyF11,
}

// Poll drains the SDL event queue into state.
func Poll(state *input.State) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := translate(event); ok {
			state.Apply(e)
		}
	}
}

func translate(event sdl.Event) (input.Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return input.Event{Type: input.EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return input.Event{
				Type:   input.EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		key, ok := keys[e.Keysym.Scancode]
		if !ok {
			return input.Event{}, false
		}
		if e.Type == sdl.KEYDOWN {
			return input.Event{Type: input.EventKeyDown, Key: key}, true
		}
		return input.Event{Type: input.EventKeyUp, Key: key}, true

	case *sdl.MouseMotionEvent:
		return input.Event{
			Type:   input.EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
		}, true

	case *sdl.MouseButtonEvent:
		t := input.EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			t = input.EventMouseDown
		}
		return input.Event{
			Type:   t,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: e.Button,
		}, true

	case *sdl.MouseWheelEvent:
		return input.Event{Type: input.EventMouseWheel, Wheel: float64(e.Y)}, true
	}
	return input.Event{}, false
}
