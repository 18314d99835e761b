// Package input turns window events into per-frame input state.
package input

// EventType classifies an Event.
type EventType int

// Event types.
const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Key is a backend-independent key code.
type Key int

// Keys the demo reacts to.
const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyZ
	KeyX
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyR
	KeyF
	KeyC
	KeyP
	KeySpace
	KeyEscape
	KeyF11
)

// Mouse buttons.
const (
	ButtonLeft   uint8 = 1
	ButtonMiddle uint8 = 2
	ButtonRight  uint8 = 3
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
	Wheel  float64
}

// Point is a position in window coordinates.
type Point struct {
	X, Y int
}

// clickSlop is how far the pointer may travel between press and release
// for the pair to count as a click.
const clickSlop = 3

// State accumulates events for one frame on top of persistent key and
// button state.
type State struct {
	held    map[Key]bool
	pressed map[Key]bool

	dragging bool
	downAt   Point
	last     Point
	dragDX   float64
	dragDY   float64
	travel   int
	wheel    float64
	clicks   []Point
	resized  bool
	width    int
	height   int
	quit     bool
}

// NewState creates an empty input state.
func NewState() *State {
	return &State{
		held:    make(map[Key]bool),
		pressed: make(map[Key]bool),
	}
}

// BeginFrame clears everything that only lasts one frame.
func (s *State) BeginFrame() {
	clear(s.pressed)
	s.dragDX, s.dragDY = 0, 0
	s.wheel = 0
	s.clicks = s.clicks[:0]
	s.resized = false
}

// Apply folds one event into the state.
func (s *State) Apply(e Event) {
	switch e.Type {
	case EventQuit:
		s.quit = true
	case EventWindowResize:
		s.resized = true
		s.width, s.height = e.Width, e.Height
	case EventKeyDown:
		if !s.held[e.Key] {
			s.pressed[e.Key] = true
		}
		s.held[e.Key] = true
	case EventKeyUp:
		delete(s.held, e.Key)
	case EventMouseDown:
		if e.Button == ButtonLeft {
			s.dragging = true
			s.downAt = Point{e.MouseX, e.MouseY}
			s.last = s.downAt
			s.travel = 0
		}
	case EventMouseMove:
		if s.dragging {
			dx, dy := e.MouseX-s.last.X, e.MouseY-s.last.Y
			s.dragDX += float64(dx)
			s.dragDY += float64(dy)
			s.travel += abs(dx) + abs(dy)
		}
		s.last = Point{e.MouseX, e.MouseY}
	case EventMouseUp:
		if e.Button == ButtonLeft && s.dragging {
			s.dragging = false
			if s.travel <= clickSlop {
				s.clicks = append(s.clicks, Point{e.MouseX, e.MouseY})
			}
		}
	case EventMouseWheel:
		s.wheel += e.Wheel
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Held reports whether k is down.
func (s *State) Held(k Key) bool { return s.held[k] }

// Pressed reports whether k went down this frame.
func (s *State) Pressed(k Key) bool { return s.pressed[k] }

// Drag returns the pointer movement this frame while the left button is held.
func (s *State) Drag() (dx, dy float64) { return s.dragDX, s.dragDY }

// Wheel returns the scroll amount this frame.
func (s *State) Wheel() float64 { return s.wheel }

// Clicks returns left clicks completed this frame.
func (s *State) Clicks() []Point { return s.clicks }

// Resized returns the new window size if it changed this frame.
func (s *State) Resized() (width, height int, ok bool) {
	return s.width, s.height, s.resized
}

// Quit reports whether a quit was requested.
func (s *State) Quit() bool { return s.quit }

// NDC maps p to normalized device coordinates in [-1, 1] with +v up.
func (p Point) NDC(width, height int) (u, v float64) {
	u = 2*(float64(p.X)+0.5)/float64(width) - 1
	v = 1 - 2*(float64(p.Y)+0.5)/float64(height)
	return u, v
}
