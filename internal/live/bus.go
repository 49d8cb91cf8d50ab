// Package live provides an in-process pub/sub bus for screen-config
// updates. The preview server publishes after a config write; websocket
// sessions subscribe and re-plan their screens asynchronously.
package live

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ScreenUpdate announces that a screen's stored config changed.
type ScreenUpdate struct {
	ID        uuid.UUID `json:"id"`
	ScreenID  string    `json:"screenId"`
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewScreenUpdate builds an update for a screen, stamped now.
func NewScreenUpdate(screenID, version string) ScreenUpdate {
	return ScreenUpdate{ID: uuid.New(), ScreenID: screenID, Version: version, UpdatedAt: time.Now().UTC()}
}

// Subscriber processes a screen update. Implementations must be safe for
// concurrent calls from different goroutines.
type Subscriber interface {
	HandleUpdate(ctx context.Context, upd ScreenUpdate) error
}

// SubscriberFunc adapts a plain function to the Subscriber interface.
type SubscriberFunc func(ctx context.Context, upd ScreenUpdate) error

func (f SubscriberFunc) HandleUpdate(ctx context.Context, upd ScreenUpdate) error {
	return f(ctx, upd)
}

// Bus is a simple in-process update bus. Updates are published to a
// buffered channel and dispatched to all subscribers from a single consumer
// goroutine, which keeps delivery ordered per publisher.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]Subscriber
	updates     chan ScreenUpdate
	done        chan struct{}
}

// NewBus creates a bus with the given channel buffer size.
func NewBus(bufSize int) *Bus {
	if bufSize < 1 {
		bufSize = 256
	}
	return &Bus{
		subscribers: make(map[string]Subscriber),
		updates:     make(chan ScreenUpdate, bufSize),
		done:        make(chan struct{}),
	}
}

// Subscribe registers a subscriber under an id. Re-using an id replaces the
// previous subscriber.
func (b *Bus) Subscribe(id string, s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[id] = s
}

// Unsubscribe removes a subscriber. Unknown ids are a no-op.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, id)
}

// Publish sends an update to the bus. Non-blocking; if the buffer is full
// the update is dropped and a warning logged. Live preview tolerates a
// dropped frame, the next write publishes again.
func (b *Bus) Publish(upd ScreenUpdate) {
	select {
	case b.updates <- upd:
	default:
		log.Printf("live: buffer full, dropping update for %s (%s)", upd.ScreenID, upd.ID)
	}
}

// Start begins the consumer goroutine. It processes updates until the
// context is cancelled, draining whatever is buffered before exiting.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		defer close(b.done)
		for {
			select {
			case upd := <-b.updates:
				b.dispatch(ctx, upd)
			case <-ctx.Done():
				for {
					select {
					case upd := <-b.updates:
						b.dispatch(ctx, upd)
					default:
						return
					}
				}
			}
		}
	}()
}

// Wait blocks until the consumer goroutine has exited.
func (b *Bus) Wait() {
	<-b.done
}

func (b *Bus) dispatch(ctx context.Context, upd ScreenUpdate) {
	b.mu.RLock()
	subs := make([]Subscriber, 0, len(b.subscribers))
	for _, s := range b.subscribers {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.HandleUpdate(ctx, upd); err != nil {
			log.Printf("live: subscriber error for %s: %v", upd.ScreenID, err)
		}
	}
}
