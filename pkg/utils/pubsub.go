package utils

import (
	"github.com/sasha-s/go-deadlock"
)

// Topic fans values out to every current subscriber. Publish blocks until
// each subscriber has either taken the value or called Done, so buffered
// subscriptions should be used by anyone who does not read promptly.
type Topic[T any] struct {
	subscribers map[*Subscriber[T]]struct{}
	mutex       deadlock.Mutex
}

func NewTopic[T any]() *Topic[T] {
	return &Topic[T]{
		subscribers: make(map[*Subscriber[T]]struct{}),
	}
}

func (t *Topic[T]) Publish(value T) {
	t.mutex.Lock()
	subscribers := make([]*Subscriber[T], 0, len(t.subscribers))
	for subscriber := range t.subscribers {
		subscribers = append(subscribers, subscriber)
	}
	t.mutex.Unlock()

	for _, subscriber := range subscribers {
		select {
		case subscriber.channel <- value:
		case <-subscriber.done:
		}
	}
}

// NumSubscribers reports how many subscriptions are still open.
func (t *Topic[T]) NumSubscribers() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return len(t.subscribers)
}

type Subscriber[T any] struct {
	channel chan T
	done    chan struct{}
	closed  deadlock.Mutex
	isDone  bool
	topic   *Topic[T]
}

func (t *Topic[T]) Subscribe() *Subscriber[T] {
	return t.SubscribeBuffered(0)
}

func (t *Topic[T]) SubscribeBuffered(size int) *Subscriber[T] {
	subscriber := &Subscriber[T]{
		channel: make(chan T, size),
		done:    make(chan struct{}),
		topic:   t,
	}

	t.mutex.Lock()
	t.subscribers[subscriber] = struct{}{}
	t.mutex.Unlock()

	return subscriber
}

func (s *Subscriber[T]) Recv() <-chan T {
	return s.channel
}

// Done ends the subscription. It is safe to call more than once.
func (s *Subscriber[T]) Done() {
	s.closed.Lock()
	if s.isDone {
		s.closed.Unlock()
		return
	}
	s.isDone = true
	close(s.done)
	s.closed.Unlock()

	topic := s.topic
	topic.mutex.Lock()
	delete(topic.subscribers, s)
	topic.mutex.Unlock()
}
