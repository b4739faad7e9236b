// Package events is a small typed pub/sub bus. It carries supplementary
// notifications (session lifecycle, scope reloads) for consumers outside
// the stores' synchronous observer contract.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// HandlerFunc is the function called when an event is emitted.
type HandlerFunc func(context.Context, any) error

// SubjectOption configures a Subject.
type SubjectOption func(*subjectConfig)

type subjectConfig struct {
	bufferSize   int
	syncDelivery bool
	logger       *slog.Logger
}

// WithBufferSize sets the event channel buffer size.
func WithBufferSize(size int) SubjectOption {
	return func(cfg *subjectConfig) {
		cfg.bufferSize = size
	}
}

// WithSyncDelivery forces synchronous (inline) handler calls within the
// event loop goroutine, for handlers that must not run concurrently.
func WithSyncDelivery() SubjectOption {
	return func(cfg *subjectConfig) {
		cfg.syncDelivery = true
	}
}

// WithLogger sets a structured logger for handler errors.
func WithLogger(logger *slog.Logger) SubjectOption {
	return func(cfg *subjectConfig) {
		cfg.logger = logger
	}
}

type event struct {
	topic   string
	message any
}

// Subscription is a handler bound to a topic. Unsubscribe detaches it.
type Subscription struct {
	Topic       string
	ID          string
	Handler     HandlerFunc
	Unsubscribe func()
}

// Subject routes emitted events to topic subscribers via a single event
// loop goroutine.
type Subject struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]Subscription
	nextSubID   int

	events   chan event
	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	config subjectConfig
}

// NewSubject creates a Subject and starts its event loop.
func NewSubject(opts ...SubjectOption) *Subject {
	cfg := subjectConfig{bufferSize: 512}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Subject{
		subscribers: make(map[string]map[string]Subscription),
		events:      make(chan event, cfg.bufferSize),
		shutdown:    make(chan struct{}),
		config:      cfg,
	}

	s.wg.Add(1)
	go s.eventLoop()
	return s
}

// Emit publishes value on the given topic.
func Emit[T any](subject *Subject, topic string, value T) error {
	if subject == nil {
		return nil
	}

	select {
	case <-subject.shutdown:
		return fmt.Errorf("subject is shut down")
	default:
	}

	select {
	case subject.events <- event{topic: topic, message: value}:
		return nil
	case <-subject.shutdown:
		return fmt.Errorf("subject is shut down")
	case <-time.After(5 * time.Second):
		return fmt.Errorf("failed to emit event on %s: %v", topic, value)
	}
}

// Subscribe attaches a typed handler to the given topic.
func Subscribe[T any](subject *Subject, topic string, handler func(context.Context, T) error) Subscription {
	wrapped := HandlerFunc(func(ctx context.Context, data any) error {
		typed, ok := data.(T)
		if !ok {
			return fmt.Errorf("type assertion failed for %T, expected %T", data, *new(T))
		}
		return handler(ctx, typed)
	})

	subject.mu.Lock()
	subject.nextSubID++
	id := fmt.Sprintf("%s-%d", topic, subject.nextSubID)
	sub := Subscription{Topic: topic, ID: id, Handler: wrapped}
	sub.Unsubscribe = func() {
		subject.mu.Lock()
		if topicSubs, ok := subject.subscribers[topic]; ok {
			delete(topicSubs, id)
			if len(topicSubs) == 0 {
				delete(subject.subscribers, topic)
			}
		}
		subject.mu.Unlock()
	}

	if subject.subscribers[topic] == nil {
		subject.subscribers[topic] = make(map[string]Subscription)
	}
	subject.subscribers[topic][id] = sub
	subject.mu.Unlock()

	return sub
}

// Complete shuts the Subject down. Idempotent.
func Complete(s *Subject) {
	if s == nil {
		return
	}
	s.stopOnce.Do(func() {
		close(s.shutdown)

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
		}
	})
}

func (s *Subject) eventLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.shutdown:
			return
		case evt := <-s.events:
			s.mu.RLock()
			subs := make([]Subscription, 0, len(s.subscribers[evt.topic]))
			for _, sub := range s.subscribers[evt.topic] {
				subs = append(subs, sub)
			}
			s.mu.RUnlock()

			for _, sub := range subs {
				s.deliver(sub, evt)
			}
		}
	}
}

func (s *Subject) deliver(sub Subscription, evt event) {
	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := sub.Handler(ctx, evt.message); err != nil && s.config.logger != nil {
			s.config.logger.Debug("event handler error",
				"topic", evt.topic,
				"error", err,
				"subscription_id", sub.ID)
		}
	}

	if s.config.syncDelivery {
		run()
	} else {
		go run()
	}
}
