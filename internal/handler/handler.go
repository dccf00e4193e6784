// Package handler содержит HTTP-обработчики API склада.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mmeshcher/inventory-console/internal/dashboard"
	"github.com/mmeshcher/inventory-console/internal/middleware"
	"github.com/mmeshcher/inventory-console/internal/model"
	"github.com/mmeshcher/inventory-console/internal/purchaseorder"
	"github.com/mmeshcher/inventory-console/internal/repository"
	"github.com/mmeshcher/inventory-console/internal/service"
	"github.com/mmeshcher/inventory-console/internal/validation"
)

const maxBodySize = 1 << 20

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Ping(ctx context.Context) error

	Signup(ctx context.Context, req model.SignupRequest) (model.User, error)
	CreateUser(ctx context.Context, req model.SignupRequest) (model.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.User, error)
	DeleteUser(ctx context.Context, id string) error

	ListDocuments(ctx context.Context, kind model.Kind) ([]json.RawMessage, error)
	GetDocument(ctx context.Context, kind model.Kind, id string) (json.RawMessage, error)
	CreateDocument(ctx context.Context, actor model.User, kind model.Kind, body []byte) (json.RawMessage, error)
	PatchDocument(ctx context.Context, actor model.User, kind model.Kind, id string, body []byte) (json.RawMessage, error)
	DeleteDocument(ctx context.Context, kind model.Kind, id string) error

	ApprovePurchaseOrder(ctx context.Context, actor model.User, id string, req model.ApproveRequest) (model.PurchaseOrder, error)
	DeclinePurchaseOrder(ctx context.Context, actor model.User, id string) (model.PurchaseOrder, error)
	ReceivePurchaseOrder(ctx context.Context, actor model.User, id string, items []model.LineItem) (model.ReceiveResult, error)

	ListNotifications(ctx context.Context, actor model.User) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, actor model.User, id string) (model.Notification, error)
	DeleteNotification(ctx context.Context, actor model.User, id string) error

	DashboardStats(ctx context.Context) (dashboard.Stats, error)
}

// Handler реализует HTTP-обработчики API склада.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	metrics        *middleware.Metrics
	gatherer       prometheus.Gatherer
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
// Метрики HTTP регистрируются в reg и отдаются на /metrics.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, reg *prometheus.Registry) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		metrics:        middleware.NewMetrics(reg),
		gatherer:       reg,
	}
}

type envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Status: "success", Data: data}); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}

func (h *Handler) writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Status: "error", Error: message})
}

// statusFor сопоставляет ошибке бизнес-логики HTTP-статус.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrUnknownCollection):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrUserExists), errors.Is(err, repository.ErrDocumentExists):
		return http.StatusConflict
	case errors.Is(err, purchaseorder.ErrInvalidTransition), errors.Is(err, purchaseorder.ErrAlreadyReceived):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, purchaseorder.ErrForbidden), errors.Is(err, service.ErrSignupClosed):
		return http.StatusForbidden
	case errors.Is(err, service.ErrValidation), errors.Is(err, purchaseorder.ErrInvalidEmail),
		errors.Is(err, validation.ErrNoItems), errors.Is(err, validation.ErrInvalidQuantity),
		errors.Is(err, validation.ErrMissingProduct):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(op+" error", zap.Error(err), zap.String("uri", r.RequestURI))
		h.writeMessage(w, status, http.StatusText(status))
		return
	}
	h.writeMessage(w, status, err.Error())
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: decode body: %v", service.ErrValidation, err)
	}
	return nil
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", service.ErrValidation, err)
	}
	return body, nil
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	u, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		h.writeMessage(w, http.StatusUnauthorized, "authentication required")
	}
	return u, ok
}

// Health сообщает о доступности сервера и базы данных.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		h.writeMessage(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"database": "ok"})
}

// Signup регистрирует первого пользователя системы и открывает для него сессию.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, "signup", err)
		return
	}

	u, err := h.service.Signup(r.Context(), req)
	if err != nil {
		h.writeError(w, r, "signup", err)
		return
	}

	h.authMiddleware.SetAuthCookie(w, u.ID)
	h.writeJSON(w, http.StatusCreated, u)
}

// Login выполняет аутентификацию пользователя и устанавливает cookie сессии.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.Credentials
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, "login", err)
		return
	}

	if req.Email == "" || req.Password == "" {
		h.writeMessage(w, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, "login", err)
		return
	}

	h.authMiddleware.SetAuthCookie(w, u.ID)
	h.writeJSON(w, http.StatusOK, u)
}

// Logout закрывает сессию. Выполняется и без действующей сессии.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authMiddleware.ClearAuthCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me возвращает пользователя текущей сессии.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := h.actor(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, u)
}

// ListUsers возвращает всех пользователей.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, r, "list users", err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	h.writeJSON(w, http.StatusOK, users)
}

// GetUser возвращает пользователя по идентичности.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "get user", err)
		return
	}
	h.writeJSON(w, http.StatusOK, u)
}

// CreateUser создаёт пользователя с указанной ролью.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, "create user", err)
		return
	}

	u, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		h.writeError(w, r, "create user", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, u)
}

// UpdateUser изменяет имя, email или роль пользователя.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch model.UserPatch
	if err := decodeBody(r, &patch); err != nil {
		h.writeError(w, r, "update user", err)
		return
	}

	u, err := h.service.UpdateUser(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.writeError(w, r, "update user", err)
		return
	}
	h.writeJSON(w, http.StatusOK, u)
}

// DeleteUser удаляет пользователя.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, "delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
