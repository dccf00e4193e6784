package store

import (
	"slices"
	"sync"
)

// Listener вызывается после применения каждого действия.
type Listener func(State)

type subscription struct {
	id int
	fn Listener
}

// Store хранит состояние процесса. Передаётся явно.
// Действия применяются в порядке вызова Dispatch, подписчики получают снимки
// в том же порядке и вызываются в порядке подписки. Подписчик не должен
// вызывать Dispatch.
type Store struct {
	dispatchMu sync.Mutex

	mu        sync.RWMutex
	state     State
	listeners []subscription
	nextID    int
}

// New создаёт хранилище с пустым состоянием.
func New() *Store {
	return &Store{}
}

// State возвращает текущий снимок состояния.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch применяет действие и уведомляет подписчиков.
func (s *Store) Dispatch(a Action) State {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	s.state = Reduce(s.state, a)
	snapshot := s.state
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(snapshot)
	}
	return snapshot
}

// Subscribe регистрирует подписчика и возвращает функцию отписки.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: l})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool { return sub.id == id })
		s.mu.Unlock()
	}
}
