// Package service реализует бизнес-логику сервера склада.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/inventory-console/internal/model"
	"github.com/mmeshcher/inventory-console/internal/notify"
	"github.com/mmeshcher/inventory-console/internal/purchaseorder"
	"github.com/mmeshcher/inventory-console/internal/repository"
)

var (
	// ErrInvalidCredentials возвращается при неверном email или пароле.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation возвращается при некорректных входных данных.
	ErrValidation = errors.New("validation failed")
	// ErrSignupClosed возвращается при самостоятельной регистрации, когда пользователи уже есть.
	ErrSignupClosed = errors.New("signup is closed, ask an administrator")
	// ErrUnknownCollection возвращается для коллекции, которая не хранится как документы.
	ErrUnknownCollection = errors.New("unknown collection")
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, u model.User, passwordHash []byte) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*repository.StoredUser, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	ListUsers(ctx context.Context, roles ...model.Role) ([]model.User, error)
	UpdateUser(ctx context.Context, u model.User) (model.User, error)
	DeleteUser(ctx context.Context, id string) error

	ListDocuments(ctx context.Context, collection string) ([]json.RawMessage, error)
	GetDocument(ctx context.Context, collection, id string) (json.RawMessage, error)
	InsertDocument(ctx context.Context, collection, id string, doc json.RawMessage) error
	DeleteDocument(ctx context.Context, collection, id string) error
	InTx(ctx context.Context, fn func(repository.Tx) error) error

	CreateNotifications(ctx context.Context, userIDs []string, n model.Notification) error
	ListNotifications(ctx context.Context, userID string) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id string, at time.Time) (model.Notification, error)
	DeleteNotification(ctx context.Context, userID, id string) error
}

// Options задаёт параметры сервиса.
type Options struct {
	Policy purchaseorder.StockPolicy
	Mailer notify.Mailer
	Logger *zap.Logger
}

// Service содержит бизнес-логику сервера склада.
type Service struct {
	repo   Repository
	policy purchaseorder.StockPolicy
	mailer notify.Mailer
	logger *zap.Logger
	now    func() time.Time
}

// NewService создаёт новый сервис с указанным репозиторием.
func NewService(repo Repository, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Mailer == nil {
		opts.Mailer = notify.NewLogMailer(opts.Logger)
	}
	if opts.Policy == "" {
		opts.Policy = purchaseorder.PolicyReplace
	}

	return &Service{
		repo:   repo,
		policy: opts.Policy,
		mailer: opts.Mailer,
		logger: opts.Logger,
		now:    time.Now,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// Ping проверяет доступность хранилища.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
