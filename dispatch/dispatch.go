/*
Package dispatch supplies a synchronous, type-keyed event bus. Handlers
subscribe to one concrete event type and run in registration order on the
goroutine that posts the event.
*/
package dispatch

import (
	"reflect"
	"sync"
)

// Handler is implemented by anything that wants events from a Bus.
type Handler interface {
	HandleEvent(ev interface{})
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ev interface{})

// HandleEvent calls the wrapped function.
func (f HandlerFunc) HandleEvent(ev interface{}) {
	f(ev)
}

// registration pairs a handler with the id handed out when it was added.
type registration struct {
	id      uint64
	handler Handler
}

// Bus delivers events to handlers keyed by the event's concrete type. The
// zero value is not usable, create one with NewBus.
type Bus struct {
	protect sync.RWMutex
	nextID  uint64
	tables  map[reflect.Type][]registration
	types   map[uint64]reflect.Type
}

// NewBus initializes an empty bus.
func NewBus() *Bus {
	return &Bus{
		tables: make(map[reflect.Type][]registration),
		types:  make(map[uint64]reflect.Type),
	}
}

// Register subscribes a handler to events of proto's concrete type and
// returns an id for Unregister. Ids increase monotonically and are never
// reused within a bus.
func (b *Bus) Register(proto interface{}, handler Handler) uint64 {
	b.protect.Lock()
	defer b.protect.Unlock()

	b.nextID++
	id := b.nextID

	key := reflect.TypeOf(proto)
	b.tables[key] = append(b.tables[key], registration{id, handler})
	b.types[id] = key
	return id
}

// Unregister removes a previously registered handler. It reports whether
// the id was known to the bus.
func (b *Bus) Unregister(id uint64) bool {
	b.protect.Lock()
	defer b.protect.Unlock()

	key, ok := b.types[id]
	if !ok {
		return false
	}
	delete(b.types, id)

	// Never mutate the registered slice in place, a Post on another
	// goroutine may hold a snapshot of it.
	regs := b.tables[key]
	replacement := make([]registration, 0, len(regs)-1)
	for _, reg := range regs {
		if reg.id != id {
			replacement = append(replacement, reg)
		}
	}

	if len(replacement) == 0 {
		delete(b.tables, key)
	} else {
		b.tables[key] = replacement
	}
	return true
}

// Post delivers an event to every handler registered for its exact type,
// in registration order, on the calling goroutine. Handlers are free to
// register, unregister, and post reentrantly; a reentrant post completes
// before the outer post moves to its next handler.
func (b *Bus) Post(ev interface{}) {
	b.protect.RLock()
	regs := b.tables[reflect.TypeOf(ev)]
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)
	b.protect.RUnlock()

	for _, reg := range snapshot {
		reg.handler.HandleEvent(ev)
	}
}

// HandlerCount reports how many handlers are subscribed to proto's
// concrete type.
func (b *Bus) HandlerCount(proto interface{}) int {
	b.protect.RLock()
	defer b.protect.RUnlock()
	return len(b.tables[reflect.TypeOf(proto)])
}
