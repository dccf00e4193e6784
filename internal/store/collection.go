package store

import "github.com/mmeshcher/inventory-console/internal/model"

// Collection хранит упорядоченный набор записей одного вида, уникальных по идентичности.
// Все операции возвращают новый набор и не изменяют исходный.
type Collection[T model.Entity] struct {
	items []T
}

// NewCollection создаёт набор из записей. Повторяющиеся идентичности схлопываются:
// запись остаётся на позиции первого вхождения со значением последнего.
func NewCollection[T model.Entity](items ...T) Collection[T] {
	return Collection[T]{}.Replace(items)
}

// Len возвращает количество записей.
func (c Collection[T]) Len() int {
	return len(c.items)
}

// Items возвращает копию записей в порядке вставки.
func (c Collection[T]) Items() []T {
	res := make([]T, len(c.items))
	copy(res, c.items)
	return res
}

// Get возвращает запись по идентичности.
func (c Collection[T]) Get(id string) (T, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Replace заменяет содержимое набора целиком.
func (c Collection[T]) Replace(items []T) Collection[T] {
	res := Collection[T]{items: make([]T, 0, len(items))}
	seen := make(map[string]int, len(items))
	for _, item := range items {
		if i, ok := seen[item.EntityID()]; ok {
			res.items[i] = item
			continue
		}
		seen[item.EntityID()] = len(res.items)
		res.items = append(res.items, item)
	}
	return res
}

// Add добавляет запись в конец набора. Если запись с такой идентичностью уже есть,
// она заменяется на месте.
func (c Collection[T]) Add(item T) Collection[T] {
	if c.indexOf(item.EntityID()) >= 0 {
		return c.Update(item)
	}
	res := Collection[T]{items: make([]T, len(c.items), len(c.items)+1)}
	copy(res.items, c.items)
	res.items = append(res.items, item)
	return res
}

// Update заменяет запись с совпадающей идентичностью, остальные записи не трогает.
// Если такой записи нет, набор возвращается без изменений.
func (c Collection[T]) Update(item T) Collection[T] {
	i := c.indexOf(item.EntityID())
	if i < 0 {
		return c
	}
	res := Collection[T]{items: c.Items()}
	res.items[i] = item
	return res
}

// Delete удаляет запись с указанной идентичностью.
func (c Collection[T]) Delete(id string) Collection[T] {
	i := c.indexOf(id)
	if i < 0 {
		return c
	}
	res := Collection[T]{items: make([]T, 0, len(c.items)-1)}
	res.items = append(res.items, c.items[:i]...)
	res.items = append(res.items, c.items[i+1:]...)
	return res
}

func (c Collection[T]) indexOf(id string) int {
	for i, item := range c.items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}
