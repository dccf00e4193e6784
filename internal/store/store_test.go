package store

import (
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/inventory-console/internal/dashboard"
	"github.com/mmeshcher/inventory-console/internal/model"
)

func products(ids ...string) []model.Product {
	res := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		res = append(res, model.Product{ID: id, Name: "name " + id})
	}
	return res
}

func TestActionTypes(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{SetLoading{}, "SET_LOADING"},
		{SetError{}, "SET_ERROR"},
		{ClearError{}, "CLEAR_ERROR"},
		{SetAll[model.Product]{}, "SET_PRODUCTS"},
		{Add[model.Supplier]{}, "ADD_SUPPLIER"},
		{Update[model.PurchaseOrder]{}, "UPDATE_PURCHASEORDER"},
		{Delete[model.User]{}, "DELETE_USER"},
		{SetAll[model.Notification]{}, "SET_NOTIFICATIONS"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.action.Type())
		})
	}
}

func TestReduce_SetLoadingKeepsData(t *testing.T) {
	s := Reduce(State{}, SetAll[model.Product]{Items: products("P1")})
	s = Reduce(s, SetLoading{Loading: true})

	assert.True(t, s.Loading)
	assert.Equal(t, 1, s.Products.Len())
}

func TestReduce_SetAllIsIdempotent(t *testing.T) {
	list := products("P1", "P2", "P3")

	first := Reduce(State{Loading: true}, SetAll[model.Product]{Items: list})
	second := Reduce(first, SetAll[model.Product]{Items: list})

	assert.Equal(t, first.Products, second.Products)
	assert.Equal(t, 3, second.Products.Len())
	assert.False(t, second.Loading)
}

func TestReduce_SetAllKeepsError(t *testing.T) {
	s := Reduce(State{}, SetError{Message: "boom"})
	s = Reduce(s, SetAll[model.Customer]{Items: []model.Customer{{ID: "C1"}}})

	require.NotNil(t, s.Err)
	assert.Equal(t, "boom", s.Err.Message)
}

func TestReduce_UpdateReplacesMatchingRecord(t *testing.T) {
	s := Reduce(State{}, SetAll[model.Product]{Items: products("P1", "P2", "P3")})

	updated := model.Product{ID: "P2", Name: "renamed", Inventory: model.Inventory{QuantityOnHand: 7}}
	s = Reduce(s, Update[model.Product]{Item: updated})

	got, ok := s.Products.Get("P2")
	require.True(t, ok)
	assert.Equal(t, updated, got)

	items := s.Products.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "P1", items[0].ID)
	assert.Equal(t, "P2", items[1].ID)
	assert.Equal(t, "name P3", items[2].Name)
}

func TestReduce_UpdateUnknownIsNoop(t *testing.T) {
	s := Reduce(State{}, SetAll[model.Product]{Items: products("P1")})
	before := s.Products

	s = Reduce(s, Update[model.Product]{Item: model.Product{ID: "P9"}})

	assert.Equal(t, before, s.Products)
}

func TestReduce_UpdateDoesNotTouchPreviousSnapshot(t *testing.T) {
	first := Reduce(State{}, SetAll[model.Product]{Items: products("P1")})
	second := Reduce(first, Update[model.Product]{Item: model.Product{ID: "P1", Name: "new"}})

	old, _ := first.Products.Get("P1")
	cur, _ := second.Products.Get("P1")
	assert.Equal(t, "name P1", old.Name)
	assert.Equal(t, "new", cur.Name)
}

func TestReduce_Delete(t *testing.T) {
	s := Reduce(State{}, SetAll[model.Order]{Items: []model.Order{{ID: "O1"}, {ID: "O2"}, {ID: "O3"}}})
	n := s.Orders.Len()

	s = Reduce(s, Delete[model.Order]{ID: "O2"})

	assert.Equal(t, n-1, s.Orders.Len())
	_, ok := s.Orders.Get("O2")
	assert.False(t, ok)
}

func TestReduce_AddAppendsAndClearsLoading(t *testing.T) {
	s := Reduce(State{Loading: true}, Add[model.PurchaseOrder]{Item: model.PurchaseOrder{ID: "PO-1"}})
	s = Reduce(s, Add[model.PurchaseOrder]{Item: model.PurchaseOrder{ID: "PO-2"}})
	s = Reduce(s, Add[model.PurchaseOrder]{Item: model.PurchaseOrder{ID: "PO-1", PONumber: "again"}})

	assert.False(t, s.Loading)
	items := s.PurchaseOrders.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "again", items[0].PONumber)
}

func TestReduce_SetErrorClearsLoading(t *testing.T) {
	s := Reduce(State{Loading: true}, SetError{Message: "session expired", Status: http.StatusUnauthorized})

	assert.False(t, s.Loading)
	require.NotNil(t, s.Err)
	assert.True(t, s.Err.Unauthorized())

	s = Reduce(s, ClearError{})
	assert.Nil(t, s.Err)
	assert.False(t, s.Err.Unauthorized())
}

func TestReduce_LogoutClearsSession(t *testing.T) {
	s := Reduce(State{}, SetCurrentUser{User: model.User{ID: "U1", Role: model.RoleAdmin}})
	s = Reduce(s, SetAll[model.Product]{Items: products("P1")})
	s = Reduce(s, SetStats{Stats: dashboard.Stats{}})

	require.NotNil(t, s.CurrentUser)

	s = Reduce(s, Logout{})
	assert.Nil(t, s.CurrentUser)
	assert.Nil(t, s.Stats)
	assert.Equal(t, 0, s.Products.Len())
}

func TestUnreadNotifications(t *testing.T) {
	now := time.Now()
	s := Reduce(State{}, SetAll[model.Notification]{Items: []model.Notification{
		{ID: "N1"},
		{ID: "N2", ReadAt: &now},
		{ID: "N3"},
	}})

	assert.Equal(t, 2, UnreadNotifications(s))
}

func TestStore_DispatchNotifiesSubscribers(t *testing.T) {
	st := New()

	var got []State
	unsubscribe := st.Subscribe(func(s State) {
		got = append(got, s)
	})

	st.Dispatch(SetLoading{Loading: true})
	st.Dispatch(SetAll[model.Product]{Items: products("P1")})
	unsubscribe()
	st.Dispatch(SetLoading{Loading: true})

	require.Len(t, got, 2)
	assert.True(t, got[0].Loading)
	assert.Equal(t, 1, got[1].Products.Len())
	assert.True(t, st.State().Loading)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	st := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st.Dispatch(Add[model.Product]{Item: model.Product{ID: string(rune('A' + i))}})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, st.State().Products.Len())
}

func TestStore_ListenersCalledInSubscriptionOrder(t *testing.T) {
	st := New()

	var calls []int
	for i := 0; i < 5; i++ {
		st.Subscribe(func(State) { calls = append(calls, i) })
	}
	unsubscribe := st.Subscribe(func(State) { calls = append(calls, 99) })
	unsubscribe()

	st.Dispatch(SetLoading{Loading: true})
	st.Dispatch(SetLoading{Loading: false})

	assert.Equal(t, []int{0, 1, 2, 3, 4, 0, 1, 2, 3, 4}, calls)
}

func TestStore_ConcurrentDispatchDeliversInOrder(t *testing.T) {
	st := New()

	var seen []int
	st.Subscribe(func(s State) { seen = append(seen, s.Products.Len()) })

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Dispatch(Add[model.Product]{Item: model.Product{ID: "P" + strconv.Itoa(i)}})
		}()
	}
	wg.Wait()

	require.Len(t, seen, n)
	for i, got := range seen {
		assert.Equal(t, i+1, got)
	}
}
