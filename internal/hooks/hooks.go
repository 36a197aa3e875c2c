// Package hooks provides a lifecycle hook registry for domain entities.
//
// Callbacks are registered per entity kind against one of four lifecycle
// events and are invoked imperatively by whatever code performs the
// create/update/delete. A hook may be registered as deferred: it then runs
// only after the enclosing unit of work commits (see uow.go), which keeps
// side effects such as permission grants out of the entity transaction.
package hooks

import (
	"context"
	"fmt"
	"sync"
)

// Event identifies a lifecycle signal.
type Event int

const (
	BeforeSave Event = iota
	AfterSave
	BeforeDelete
	AfterDelete
)

func (e Event) String() string {
	switch e {
	case BeforeSave:
		return "before-save"
	case AfterSave:
		return "after-save"
	case BeforeDelete:
		return "before-delete"
	case AfterDelete:
		return "after-delete"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// Func is a lifecycle callback. entity is the affected model and created
// reports, for save events, whether the save was an insert.
type Func func(ctx context.Context, entity any, created bool) error

type hook struct {
	name     string
	fn       Func
	deferred bool
}

// Registry maps (entity kind, event) to an ordered list of hooks.
//
// When Synchronous is set, deferred hooks run inline during Dispatch instead
// of being queued on the unit of work. Tests use this to observe post-commit
// effects deterministically.
type Registry struct {
	Synchronous bool

	mu    sync.RWMutex
	hooks map[string]map[Event][]hook
}

// NewRegistry creates an empty hook registry.
func NewRegistry(synchronous bool) *Registry {
	return &Registry{
		Synchronous: synchronous,
		hooks:       make(map[string]map[Event][]hook),
	}
}

// Register subscribes fn to the event for the given entity kind. The name
// makes registration idempotent: registering the same (kind, event, name)
// twice keeps the first registration and its position.
func (r *Registry) Register(kind string, event Event, name string, fn Func) {
	r.register(kind, event, hook{name: name, fn: fn})
}

// RegisterDeferred is Register for hooks that must run only after the
// enclosing unit of work commits.
func (r *Registry) RegisterDeferred(kind string, event Event, name string, fn Func) {
	r.register(kind, event, hook{name: name, fn: fn, deferred: true})
}

func (r *Registry) register(kind string, event Event, h hook) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byEvent, ok := r.hooks[kind]
	if !ok {
		byEvent = make(map[Event][]hook)
		r.hooks[kind] = byEvent
	}
	for _, existing := range byEvent[event] {
		if existing.name == h.name {
			return
		}
	}
	byEvent[event] = append(byEvent[event], h)
}

// Dispatch invokes the hooks registered for (kind, event) in registration
// order. A non-deferred hook error aborts dispatch and propagates to the
// caller. Deferred hooks are queued on the unit of work in ctx; with no unit
// of work present, or in synchronous mode, they run inline like any other
// hook.
func (r *Registry) Dispatch(ctx context.Context, kind string, event Event, entity any, created bool) error {
	r.mu.RLock()
	var hs []hook
	if byEvent, ok := r.hooks[kind]; ok {
		hs = byEvent[event]
	}
	r.mu.RUnlock()

	for _, h := range hs {
		if h.deferred && !r.Synchronous {
			if queued := OnCommit(ctx, deferredCall(h, entity, created)); queued {
				continue
			}
		}
		if err := h.fn(ctx, entity, created); err != nil {
			return fmt.Errorf("hook %s/%s %q: %w", kind, event, h.name, err)
		}
	}
	return nil
}

func deferredCall(h hook, entity any, created bool) func(context.Context) error {
	return func(ctx context.Context) error {
		return h.fn(ctx, entity, created)
	}
}
