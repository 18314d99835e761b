package scene

import (
	"fmt"
)

// Kind tags what a Resource holds.
type Kind int

// Resource kinds.
const (
	KindGeometry Kind = iota
	KindTexture
	KindMaterial
)

func (k Kind) String() string {
	switch k {
	case KindGeometry:
		return "geometry"
	case KindTexture:
		return "texture"
	case KindMaterial:
		return "material"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type resourceState int

const (
	pending resourceState = iota
	ready
	released
)

// Resource is a scene-owned value with a lazy Init and a Destroy that runs
// at most once.
type Resource struct {
	Name string
	Kind Kind

	init    func() error
	destroy func() error
	state   resourceState
}

// Init runs the resource's initializer the first time it is called.
// A failed Init may be retried.
func (r *Resource) Init() error {
	switch r.state {
	case ready:
		return nil
	case released:
		return fmt.Errorf("%s %q: %w", r.Kind, r.Name, ErrDestroyed)
	}
	if r.init != nil {
		if err := r.init(); err != nil {
			return fmt.Errorf("init %s %q: %w", r.Kind, r.Name, err)
		}
	}
	r.state = ready
	return nil
}

// Ready reports whether Init has succeeded.
func (r *Resource) Ready() bool { return r.state == ready }

// Destroy releases the resource. Only the first call does any work.
func (r *Resource) Destroy() error {
	if r.state == released {
		return nil
	}
	r.state = released
	if r.destroy == nil {
		return nil
	}
	if err := r.destroy(); err != nil {
		return fmt.Errorf("destroy %s %q: %w", r.Kind, r.Name, err)
	}
	return nil
}
