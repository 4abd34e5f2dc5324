package eventbus

import (
	"log"
	"regexp"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind names an event. Every internal event declares its kind as a constant.
type Kind string

func (k Kind) String() string { return string(k) }

// Event is implemented by every typed payload published on the bus
type Event interface {
	Kind() Kind
}

// Handler receives the typed payload of an exact-kind subscription
type Handler func(Event)

// Envelope is what pattern and wildcard subscribers receive
type Envelope struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Payload     Event     `json:"payload"`
	PublishedAt time.Time `json:"published_at"`
}

// EnvelopeHandler receives envelopes from the raw channel
type EnvelopeHandler func(Envelope)

// Subscription identifies one registered handler; pass it to Unsubscribe.
type Subscription struct {
	id      uint64
	kind    Kind
	pattern string
	all     bool
}

type subscriber struct {
	id      uint64
	handler Handler
}

type rawSubscriber struct {
	id      uint64
	pattern *regexp.Regexp // nil matches every kind
	handler EnvelopeHandler
}

// PanicHook observes a recovered handler panic
type PanicHook func(kind Kind, recovered any)

// Bus is a synchronous publish/subscribe dispatcher.
// Publish may be called from inside handlers; each publish dispatches to the
// subscribers registered at the moment it started.
type Bus struct {
	mu      sync.Mutex
	nextID  uint64
	byKind  map[Kind][]subscriber
	raw     []rawSubscriber
	onPanic PanicHook
}

func New() *Bus {
	return &Bus{byKind: make(map[Kind][]subscriber)}
}

// OnPanic replaces the default logging of recovered handler panics
func (b *Bus) OnPanic(hook PanicHook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onPanic = hook
}

// Subscribe registers a handler for one kind. Handlers of the same kind run in subscription order.
func (b *Bus) Subscribe(kind Kind, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.byKind[kind] = append(b.byKind[kind], subscriber{id: b.nextID, handler: h})
	return Subscription{id: b.nextID, kind: kind}
}

// SubscribePattern registers a raw handler for every kind matching the pattern
func (b *Bus) SubscribePattern(pattern *regexp.Regexp, h EnvelopeHandler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.raw = append(b.raw, rawSubscriber{id: b.nextID, pattern: pattern, handler: h})
	return Subscription{id: b.nextID, pattern: pattern.String()}
}

// SubscribeAll registers a raw handler for every published event
func (b *Bus) SubscribeAll(h EnvelopeHandler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.raw = append(b.raw, rawSubscriber{id: b.nextID, handler: h})
	return Subscription{id: b.nextID, all: true}
}

// Unsubscribe removes a handler. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(s Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.kind != "" {
		subs := b.byKind[s.kind]
		for i, sub := range subs {
			if sub.id == s.id {
				b.byKind[s.kind] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(b.byKind[s.kind]) == 0 {
			delete(b.byKind, s.kind)
		}
		return
	}

	for i, sub := range b.raw {
		if sub.id == s.id {
			b.raw = append(b.raw[:i:i], b.raw[i+1:]...)
			return
		}
	}
}

// UnsubscribeAll drops every subscription
func (b *Bus) UnsubscribeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byKind = make(map[Kind][]subscriber)
	b.raw = nil
}

// Publish dispatches the event synchronously: exact-kind handlers first, then raw handlers.
func (b *Bus) Publish(e Event) {
	kind := e.Kind()

	b.mu.Lock()
	exact := append([]subscriber(nil), b.byKind[kind]...)
	raw := append([]rawSubscriber(nil), b.raw...)
	b.mu.Unlock()

	for _, sub := range exact {
		b.invoke(kind, func() { sub.handler(e) })
	}

	var env *Envelope
	for _, sub := range raw {
		if sub.pattern != nil && !sub.pattern.MatchString(string(kind)) {
			continue
		}
		if env == nil {
			env = &Envelope{
				ID:          uuid.New().String(),
				Kind:        kind,
				Payload:     e,
				PublishedAt: time.Now(),
			}
		}
		envelope := *env
		b.invoke(kind, func() { sub.handler(envelope) })
	}
}

// invoke runs one handler and recovers from its panic so the remaining handlers still run
func (b *Bus) invoke(kind Kind, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.mu.Lock()
			hook := b.onPanic
			b.mu.Unlock()
			if hook != nil {
				hook(kind, r)
				return
			}
			log.Printf("[Bus] Handler for %s panicked: %v\n%s", kind, r, debug.Stack())
		}
	}()
	fn()
}

// On subscribes a handler typed to the payload T. The kind is taken from T's zero value.
func On[T Event](b *Bus, fn func(T)) Subscription {
	var zero T
	return b.Subscribe(zero.Kind(), func(e Event) {
		if typed, ok := e.(T); ok {
			fn(typed)
		}
	})
}
