package viewstate

import "sync"

// Action transforms a state.
type Action func(State) State

// Listener is notified with the new state after each dispatch.
type Listener func(State)

// Store serializes state transitions and notifies subscribers.
type Store struct {
	mu        sync.Mutex
	state     State
	nextID    int
	listeners map[int]Listener
}

// NewStore creates a store holding initial.
func NewStore(initial State) *Store {
	return &Store{state: initial, listeners: make(map[int]Listener)}
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies action and notifies listeners with the result. Listeners
// run outside the lock and in no particular order.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	s.state = action(s.state)
	next := s.state
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return next
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
