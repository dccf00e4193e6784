package console

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/inventory-console/internal/gateway"
	"github.com/mmeshcher/inventory-console/internal/model"
	"github.com/mmeshcher/inventory-console/internal/store"
)

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newActions(t *testing.T, h http.Handler) *Actions {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return New(gateway.NewClient(ts.URL, time.Second), store.New(), zap.NewNop())
}

func TestFetchProducts_StoresCollection(t *testing.T) {
	a := newActions(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, map[string]any{"data": map[string]any{
			"data": []model.Product{{ID: "P1"}, {ID: "P2"}},
		}})
	}))

	items, err := a.FetchProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)

	s := a.Store().State()
	assert.Equal(t, 2, s.Products.Len())
	assert.False(t, s.Loading)
	assert.Nil(t, s.Err)
}

func TestFetchSuppliers_ErrorSetsFailure(t *testing.T) {
	a := newActions(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "session expired"})
	}))

	_, err := a.FetchSuppliers(context.Background())
	require.ErrorIs(t, err, gateway.ErrUnauthorized)

	s := a.Store().State()
	require.NotNil(t, s.Err)
	assert.True(t, s.Err.Unauthorized())
	assert.Contains(t, s.Err.Message, "session expired")
	assert.False(t, s.Loading)
}

func TestCreateUpdateDeleteCustomer(t *testing.T) {
	a := newActions(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			respond(w, http.StatusCreated, map[string]any{"data": model.Customer{ID: "C1"}})
		case http.MethodPatch:
			respond(w, http.StatusOK, map[string]any{"data": model.Customer{
				ID:           "C1",
				PersonalInfo: model.PersonalInfo{FirstName: "Ann"},
			}})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	ctx := context.Background()

	_, err := a.CreateCustomer(ctx, map[string]any{"personal_info": map[string]string{"first_name": "A"}})
	require.NoError(t, err)
	assert.Equal(t, 1, a.Store().State().Customers.Len())

	_, err = a.UpdateCustomer(ctx, "C1", map[string]any{"personal_info": map[string]string{"first_name": "Ann"}})
	require.NoError(t, err)
	got, ok := a.Store().State().Customers.Get("C1")
	require.True(t, ok)
	assert.Equal(t, "Ann", got.PersonalInfo.FirstName)

	require.NoError(t, a.DeleteCustomer(ctx, "C1"))
	assert.Zero(t, a.Store().State().Customers.Len())
}

func TestCancelledRequestOnlyClearsLoading(t *testing.T) {
	release := make(chan struct{})
	a := newActions(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := a.FetchOrders(ctx)
		done <- err
	}()

	require.Eventually(t, func() bool { return a.Store().State().Loading }, time.Second, 5*time.Millisecond)
	cancel()

	require.Error(t, <-done)
	s := a.Store().State()
	assert.False(t, s.Loading)
	assert.Nil(t, s.Err)
	assert.Zero(t, s.Orders.Len())
}

func TestLoginAndLogout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/login", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, map[string]any{"data": model.User{ID: "U1", Role: model.RoleManager}})
	})
	mux.HandleFunc("/users/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	a := newActions(t, mux)

	u, err := a.Login(context.Background(), "m@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, u.Role)
	require.NotNil(t, a.Store().State().CurrentUser)

	require.NoError(t, a.Logout(context.Background()))
	assert.Nil(t, a.Store().State().CurrentUser)
}

func TestFetchDashboardStats(t *testing.T) {
	a := newActions(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/dashboard/stats", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"summary":{"totalValue":"1500","totalUnits":60,"lowStockCount":1,"criticalCount":0,"productCount":2},"byBrand":[],"topValuedItems":[],"lowStockItems":[]}}`))
	}))

	stats, err := a.FetchDashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 60, stats.Summary.TotalUnits)

	s := a.Store().State()
	require.NotNil(t, s.Stats)
	assert.Equal(t, "1500", s.Stats.Summary.TotalValue.String())
}

func TestMarkNotificationRead(t *testing.T) {
	readAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	a := newActions(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			respond(w, http.StatusOK, map[string]any{"data": []model.Notification{{ID: "N1"}, {ID: "N2"}}})
		case r.URL.Path == "/notifications/N1/read":
			respond(w, http.StatusOK, map[string]any{"data": model.Notification{ID: "N1", ReadAt: &readAt}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	ctx := context.Background()

	_, err := a.FetchNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, store.UnreadNotifications(a.Store().State()))

	_, err = a.MarkNotificationRead(ctx, "N1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.UnreadNotifications(a.Store().State()))
}

func TestFetchPurchaseOrderPage(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/suppliers", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		respond(w, http.StatusOK, map[string]any{"data": []model.Supplier{{ID: "S1"}}})
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		respond(w, http.StatusOK, map[string]any{"data": []model.Product{{ID: "P1"}, {ID: "P2"}}})
	})
	mux.HandleFunc("/purchaseorders", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		respond(w, http.StatusOK, map[string]any{"data": []model.PurchaseOrder{{ID: "PO-1", Status: model.StatusPending}}})
	})
	a := newActions(t, mux)

	require.NoError(t, a.FetchPurchaseOrderPage(context.Background()))
	assert.EqualValues(t, 3, hits.Load())

	s := a.Store().State()
	assert.Equal(t, 1, s.Suppliers.Len())
	assert.Equal(t, 2, s.Products.Len())
	assert.Equal(t, 1, s.PurchaseOrders.Len())
	assert.False(t, s.Loading)
}

func TestFetchPurchaseOrderPage_FirstErrorWins(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/suppliers", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusInternalServerError, map[string]string{"error": "db down"})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, map[string]any{"data": []any{}})
	})
	a := newActions(t, mux)

	err := a.FetchPurchaseOrderPage(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, gateway.StatusOf(err))

	s := a.Store().State()
	require.NotNil(t, s.Err)
	assert.Equal(t, http.StatusInternalServerError, s.Err.Status)
}
