package stream

import (
	"context"
	"sync"
	"time"
)

// TradeEvent is one executed exchange trade pushed to live subscribers.
type TradeEvent struct {
	OrganizationID string    `json:"organizationId"`
	TradeID        string    `json:"tradeId"`
	Side           string    `json:"side"`
	Volume         string    `json:"volume"`
	Price          int64     `json:"price"`
	Timestamp      time.Time `json:"timestamp"`
}

// Stream fan-outs trade events to all active subscribers (SSE clients).
type Stream struct {
	mu   sync.RWMutex
	subs map[int]chan TradeEvent
	next int
}

// New initialises an empty stream.
func New() *Stream {
	return &Stream{subs: make(map[int]chan TradeEvent)}
}

// Subscribe registers a subscriber and returns a channel which will receive
// events. The channel is closed when the provided context ends.
func (s *Stream) Subscribe(ctx context.Context) <-chan TradeEvent {
	ch := make(chan TradeEvent, 16)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// Publish fan-outs the event to all subscribers.
func (s *Stream) Publish(evt TradeEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- evt:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}

// Subscribers reports the current subscriber count.
func (s *Stream) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
