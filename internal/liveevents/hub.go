package liveevents

import (
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

const (
	DefaultBufferSize       = 50
	DefaultSubscriberBuffer = 16
)

// Change is one committed mutation on a collection, published after the
// database transaction succeeds so subscribers get read-your-writes.
type Change struct {
	Collection string    `json:"collection"`
	Action     string    `json:"action"`
	ID         string    `json:"id"`
	Document   any       `json:"document,omitempty"`
	At         time.Time `json:"at"`
}

// Hub fans committed changes out to per-collection subscribers, keeping a
// bounded replay buffer per collection.
type Hub struct {
	mu               sync.RWMutex
	streams          map[string]*stream
	bufferSize       int
	subscriberBuffer int
}

type stream struct {
	mu     sync.Mutex
	buffer []Change
	subs   map[uint64]chan Change
	nextID uint64
}

type Subscription struct {
	hub        *Hub
	collection string
	id         uint64
	ch         chan Change
	once       sync.Once
}

func NewHub() *Hub {
	return &Hub{
		streams:          make(map[string]*stream),
		bufferSize:       DefaultBufferSize,
		subscriberBuffer: DefaultSubscriberBuffer,
	}
}

func (h *Hub) Publish(change Change) {
	if h == nil {
		return
	}
	collection := strings.TrimSpace(change.Collection)
	if collection == "" {
		return
	}
	h.mu.RLock()
	stream := h.streams[collection]
	h.mu.RUnlock()
	if stream == nil {
		return
	}

	stream.mu.Lock()
	stream.buffer = append(stream.buffer, change)
	if len(stream.buffer) > h.bufferSize {
		stream.buffer = stream.buffer[len(stream.buffer)-h.bufferSize:]
	}
	subs := make([]chan Change, 0, len(stream.subs))
	for _, ch := range stream.subs {
		subs = append(subs, ch)
	}
	stream.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- change:
		default:
		}
	}
}

func (h *Hub) Subscribe(collection string) (*Subscription, []Change, error) {
	if h == nil {
		return nil, nil, errors.New("hub_unavailable")
	}
	collection = strings.TrimSpace(collection)
	if collection == "" {
		return nil, nil, errors.New("invalid_collection")
	}

	stream := h.ensureStream(collection)
	stream.mu.Lock()
	if stream.subs == nil {
		stream.subs = make(map[uint64]chan Change)
	}
	id := stream.nextID
	stream.nextID++
	ch := make(chan Change, h.subscriberBuffer)
	stream.subs[id] = ch
	buffer := append([]Change(nil), stream.buffer...)
	stream.mu.Unlock()

	return &Subscription{
		hub:        h,
		collection: collection,
		id:         id,
		ch:         ch,
	}, buffer, nil
}

func (h *Hub) ensureStream(collection string) *stream {
	h.mu.RLock()
	current := h.streams[collection]
	h.mu.RUnlock()
	if current != nil {
		return current
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	current = h.streams[collection]
	if current == nil {
		current = &stream{subs: make(map[uint64]chan Change)}
		h.streams[collection] = current
	}
	return current
}

func (h *Hub) unsubscribe(collection string, id uint64) {
	if h == nil {
		return
	}

	h.mu.RLock()
	stream := h.streams[collection]
	h.mu.RUnlock()
	if stream == nil {
		return
	}

	stream.mu.Lock()
	delete(stream.subs, id)
	remaining := len(stream.subs)
	stream.mu.Unlock()
	if remaining != 0 {
		return
	}

	h.mu.Lock()
	current := h.streams[collection]
	if current != stream {
		h.mu.Unlock()
		return
	}
	stream.mu.Lock()
	empty := len(stream.subs) == 0
	stream.mu.Unlock()
	if empty {
		delete(h.streams, collection)
	}
	h.mu.Unlock()
}

func (s *Subscription) Events() <-chan Change {
	if s == nil {
		return nil
	}
	return s.ch
}

func (s *Subscription) Close() {
	if s == nil || s.hub == nil {
		return
	}
	s.once.Do(func() {
		s.hub.unsubscribe(s.collection, s.id)
	})
}
