package chart

import (
	"errors"
	"sync"

	"weather-dashboard/internal/models"
	"weather-dashboard/pkg/observe"
)

var (
	ErrMountUnavailable = errors.New("chart mount point is not available")
	ErrDisposed         = errors.New("chart instance is disposed")
)

// Engine creates chart instances bound to a mount point.
type Engine interface {
	Init(mount string) (Instance, error)
}

// Instance is one live chart. Dispose releases it; an instance is never
// reused after Dispose.
type Instance interface {
	SetOption(opt Option) error
	Dispose()
}

type RendererConfig struct {
	Mount      string
	Title      string
	Decoration *Decoration
}

// Renderer owns the chart instance of one mount point. Every Render releases
// the previous instance before creating the next one, and Unmount releases the
// last one. Nothing is rendered after Unmount.
type Renderer struct {
	engine Engine
	cfg    RendererConfig
	l      *observe.Logger

	mu        sync.Mutex
	instance  Instance
	unmounted bool
}

func NewRenderer(engine Engine, cfg RendererConfig, l *observe.Logger) *Renderer {
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	return &Renderer{
		engine: engine,
		cfg:    cfg,
		l:      l,
	}
}

// Render rebuilds the option from series and hands it to a fresh instance.
// An unavailable mount point skips rendering silently.
func (r *Renderer) Render(series models.ChartSeries) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unmounted {
		return
	}

	r.release()

	instance, err := r.engine.Init(r.cfg.Mount)
	if err != nil {
		r.l.Debug("chart rendering skipped", map[string]any{"mount": r.cfg.Mount, "err": err.Error()})
		return
	}
	r.instance = instance

	if err := instance.SetOption(BuildOption(r.cfg.Title, series, r.cfg.Decoration)); err != nil {
		r.l.Warning("failed to set chart option", map[string]any{"mount": r.cfg.Mount, "err": err.Error()})
	}
}

// Unmount releases the current instance. Later calls are no-ops.
func (r *Renderer) Unmount() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unmounted {
		return
	}
	r.unmounted = true
	r.release()
}

func (r *Renderer) release() {
	if r.instance != nil {
		r.instance.Dispose()
		r.instance = nil
	}
}
