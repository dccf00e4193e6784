package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmeshcher/inventory-console/internal/access"
	custommiddleware "github.com/mmeshcher/inventory-console/internal/middleware"
	"github.com/mmeshcher/inventory-console/internal/model"
)

// APIPrefix задаёт префикс маршрутов REST API.
const APIPrefix = "/ap/v1"

var documentKinds = []model.Kind{
	model.KindProduct,
	model.KindSupplier,
	model.KindCustomer,
	model.KindOrder,
	model.KindPurchaseOrder,
}

// SetupRouter настраивает HTTP-маршруты и middleware сервера склада.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(h.metrics.Middleware)
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))

	r.Route(APIPrefix, func(r chi.Router) {
		r.Post("/users/signup", h.Signup)
		r.Post("/users/login", h.Login)
		r.Post("/users/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Get("/users/me", h.Me)

			r.Route("/users", func(r chi.Router) {
				r.Use(custommiddleware.RequireCapability(access.SeeUsers))
				r.Get("/", h.ListUsers)
				r.Get("/{id}", h.GetUser)

				r.Group(func(r chi.Router) {
					r.Use(requireRole(model.RoleAdmin))
					r.Post("/", h.CreateUser)
					r.Patch("/{id}", h.UpdateUser)
					r.Delete("/{id}", h.DeleteUser)
				})
			})

			for _, kind := range documentKinds {
				capability, _ := access.CollectionCapability(kind)

				r.Route("/"+kind.Collection(), func(r chi.Router) {
					r.Use(custommiddleware.RequireCapability(capability))

					switch kind {
					case model.KindProduct:
						r.With(custommiddleware.RequireCapability(access.SeeAnalytics)).
							Get("/dashboard/stats", h.DashboardStats)
					case model.KindPurchaseOrder:
						approve := custommiddleware.RequireCapability(access.ApprovePurchaseOrders)
						r.With(approve).Post("/{id}/approve", h.ApprovePurchaseOrder)
						r.With(approve).Post("/{id}/decline", h.DeclinePurchaseOrder)
						r.With(custommiddleware.RequireCapability(access.ReceivePurchaseOrders)).
							Post("/{id}/receive", h.ReceivePurchaseOrder)
					}

					r.Get("/", h.ListDocuments(kind))
					r.Post("/", h.CreateDocument(kind))
					r.Get("/{id}", h.GetDocument(kind))
					r.Patch("/{id}", h.PatchDocument(kind))
					r.Delete("/{id}", h.DeleteDocument(kind))
				})
			}

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.ListNotifications)
				r.Patch("/{id}/read", h.MarkNotificationRead)
				r.Delete("/{id}", h.DeleteNotification)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeMessage(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.writeMessage(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	return r
}

// requireRole пропускает только пользователей с указанной ролью.
func requireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := custommiddleware.GetUserFromContext(r.Context())
			if !ok || u.Role != role {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"status":"error","error":"administrator role required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
