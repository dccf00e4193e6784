package store

import (
	"github.com/mmeshcher/inventory-console/internal/dashboard"
	"github.com/mmeshcher/inventory-console/internal/model"
)

// Action изменяет состояние. Набор действий закрыт.
type Action interface {
	Type() string
	reduce(State) State
}

// Reduce применяет действие к состоянию и возвращает новое состояние.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.reduce(s)
}

// SetLoading переключает признак выполняющегося запроса. Данные не сбрасываются.
type SetLoading struct {
	Loading bool
}

func (SetLoading) Type() string { return "SET_LOADING" }

func (a SetLoading) reduce(s State) State {
	s.Loading = a.Loading
	return s
}

// SetError записывает ошибку и снимает признак загрузки.
type SetError struct {
	Message string
	Status  int
}

func (SetError) Type() string { return "SET_ERROR" }

func (a SetError) reduce(s State) State {
	s.Err = &Failure{Message: a.Message, Status: a.Status}
	s.Loading = false
	return s
}

// ClearError сбрасывает ошибку.
type ClearError struct{}

func (ClearError) Type() string { return "CLEAR_ERROR" }

func (ClearError) reduce(s State) State {
	s.Err = nil
	return s
}

// SetCurrentUser сохраняет снимок текущего пользователя.
type SetCurrentUser struct {
	User model.User
}

func (SetCurrentUser) Type() string { return "SET_LOGGED_IN_USER" }

func (a SetCurrentUser) reduce(s State) State {
	u := a.User
	s.CurrentUser = &u
	s.Loading = false
	return s
}

// SetStats сохраняет статистику панели аналитики.
type SetStats struct {
	Stats dashboard.Stats
}

func (SetStats) Type() string { return "SET_STATS" }

func (a SetStats) reduce(s State) State {
	st := a.Stats
	s.Stats = &st
	s.Loading = false
	return s
}

// Logout завершает сессию: сбрасывает пользователя и кэш коллекций.
type Logout struct{}

func (Logout) Type() string { return "LOGOUT" }

func (Logout) reduce(State) State {
	return State{}
}

// SetAll заменяет коллекцию целиком (SET_<ENTITY>S). Ошибка не сбрасывается.
type SetAll[T model.Entity] struct {
	Items []T
}

func (SetAll[T]) Type() string { return "SET_" + kindOf[T]() + "S" }

func (a SetAll[T]) reduce(s State) State {
	if c := slot[T](&s); c != nil {
		*c = c.Replace(a.Items)
	}
	s.Loading = false
	return s
}

// Add добавляет запись (ADD_<ENTITY>).
type Add[T model.Entity] struct {
	Item T
}

func (Add[T]) Type() string { return "ADD_" + kindOf[T]() }

func (a Add[T]) reduce(s State) State {
	if c := slot[T](&s); c != nil {
		*c = c.Add(a.Item)
	}
	s.Loading = false
	return s
}

// Update заменяет запись с совпадающей идентичностью (UPDATE_<ENTITY>).
type Update[T model.Entity] struct {
	Item T
}

func (Update[T]) Type() string { return "UPDATE_" + kindOf[T]() }

func (a Update[T]) reduce(s State) State {
	if c := slot[T](&s); c != nil {
		*c = c.Update(a.Item)
	}
	s.Loading = false
	return s
}

// Delete удаляет запись по идентичности (DELETE_<ENTITY>).
type Delete[T model.Entity] struct {
	ID string
}

func (Delete[T]) Type() string { return "DELETE_" + kindOf[T]() }

func (a Delete[T]) reduce(s State) State {
	if c := slot[T](&s); c != nil {
		*c = c.Delete(a.ID)
	}
	s.Loading = false
	return s
}

func kindOf[T model.Entity]() string {
	var zero T
	return string(zero.Kind())
}
