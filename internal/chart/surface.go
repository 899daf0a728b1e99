package chart

import "sync"

// Surface is an in-memory Engine. Mount points are registered up front and
// each holds the option of its live instance, which the dashboard page reads.
type Surface struct {
	mu     sync.RWMutex
	mounts map[string]*surfaceInstance
}

func NewSurface(mounts ...string) *Surface {
	s := &Surface{mounts: make(map[string]*surfaceInstance, len(mounts))}
	for _, m := range mounts {
		s.mounts[m] = nil
	}
	return s
}

func (s *Surface) Init(mount string) (Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.mounts[mount]
	if !ok {
		return nil, ErrMountUnavailable
	}
	if current != nil {
		current.disposed = true
	}

	inst := &surfaceInstance{surface: s, mount: mount}
	s.mounts[mount] = inst
	return inst, nil
}

// Option returns the option of the live instance on mount.
func (s *Surface) Option(mount string) (Option, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inst := s.mounts[mount]
	if inst == nil || inst.option == nil {
		return Option{}, false
	}
	return *inst.option, true
}

type surfaceInstance struct {
	surface  *Surface
	mount    string
	option   *Option
	disposed bool
}

func (i *surfaceInstance) SetOption(opt Option) error {
	i.surface.mu.Lock()
	defer i.surface.mu.Unlock()

	if i.disposed {
		return ErrDisposed
	}
	i.option = &opt
	return nil
}

func (i *surfaceInstance) Dispose() {
	i.surface.mu.Lock()
	defer i.surface.mu.Unlock()

	if i.disposed {
		return
	}
	i.disposed = true
	if i.surface.mounts[i.mount] == i {
		i.surface.mounts[i.mount] = nil
	}
}
