package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mmeshcher/inventory-console/internal/model"
	"github.com/mmeshcher/inventory-console/internal/notify"
	"github.com/mmeshcher/inventory-console/internal/repository"
)

// stubRepo хранит данные в памяти. InTx откатывает изменения документов при ошибке.
type stubRepo struct {
	mu sync.Mutex

	users  map[string]repository.StoredUser
	order  []string
	docs   map[string]map[string]json.RawMessage
	notifs map[string][]model.Notification

	notifyErr error
	putErr    map[string]error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users:  make(map[string]repository.StoredUser),
		docs:   make(map[string]map[string]json.RawMessage),
		notifs: make(map[string][]model.Notification),
		putErr: make(map[string]error),
	}
}

func (s *stubRepo) Close() error                   { return nil }
func (s *stubRepo) Ping(ctx context.Context) error { return nil }

func (s *stubRepo) CreateUser(ctx context.Context, u model.User, passwordHash []byte) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return model.User{}, repository.ErrUserExists
		}
	}
	u.CreatedAt = time.Now()
	s.users[u.ID] = repository.StoredUser{User: u, PasswordHash: passwordHash}
	s.order = append(s.order, u.ID)
	return u, nil
}

func (s *stubRepo) GetUserByEmail(ctx context.Context, email string) (*repository.StoredUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubRepo) GetUser(ctx context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u.User, nil
}

func (s *stubRepo) ListUsers(ctx context.Context, roles ...model.Role) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]model.User, 0)
	for _, id := range s.order {
		u, ok := s.users[id]
		if !ok {
			continue
		}
		if len(roles) == 0 || hasRole(roles, u.Role) {
			res = append(res, u.User)
		}
	}
	return res, nil
}

func hasRole(roles []model.Role, r model.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}

func (s *stubRepo) UpdateUser(ctx context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.users[u.ID]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	stored.User = u
	s.users[u.ID] = stored
	return u, nil
}

func (s *stubRepo) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *stubRepo) ListDocuments(ctx context.Context, collection string) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.docs[collection]))
	for id := range s.docs[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	res := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		res = append(res, s.docs[collection][id])
	}
	return res, nil
}

func (s *stubRepo) GetDocument(ctx context.Context, collection, id string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.docs[collection][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", repository.ErrNotFound, collection, id)
	}
	return raw, nil
}

func (s *stubRepo) InsertDocument(ctx context.Context, collection, id string, doc json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]json.RawMessage)
	}
	if _, ok := s.docs[collection][id]; ok {
		return repository.ErrDocumentExists
	}
	s.docs[collection][id] = doc
	return nil
}

func (s *stubRepo) DeleteDocument(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[collection][id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.docs[collection], id)
	return nil
}

type stubTx struct {
	r *stubRepo
}

func (t stubTx) GetForUpdate(ctx context.Context, collection, id string) (json.RawMessage, error) {
	raw, ok := t.r.docs[collection][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", repository.ErrNotFound, collection, id)
	}
	return raw, nil
}

func (t stubTx) Put(ctx context.Context, collection, id string, doc json.RawMessage) error {
	if err := t.r.putErr[collection+"/"+id]; err != nil {
		return err
	}
	if _, ok := t.r.docs[collection][id]; !ok {
		return repository.ErrNotFound
	}
	t.r.docs[collection][id] = doc
	return nil
}

func (s *stubRepo) InTx(ctx context.Context, fn func(repository.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]map[string]json.RawMessage, len(s.docs))
	for c, docs := range s.docs {
		snapshot[c] = make(map[string]json.RawMessage, len(docs))
		for id, raw := range docs {
			snapshot[c][id] = raw
		}
	}

	if err := fn(stubTx{r: s}); err != nil {
		s.docs = snapshot
		return err
	}
	return nil
}

func (s *stubRepo) CreateNotifications(ctx context.Context, userIDs []string, n model.Notification) error {
	if s.notifyErr != nil {
		return s.notifyErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range userIDs {
		c := n
		c.ID = fmt.Sprintf("N-%s-%d", id, i)
		c.CreatedAt = time.Now()
		s.notifs[id] = append(s.notifs[id], c)
	}
	return nil
}

func (s *stubRepo) ListNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.notifs[userID]...), nil
}

func (s *stubRepo) MarkNotificationRead(ctx context.Context, userID, id string, at time.Time) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notifs[userID] {
		if n.ID == id {
			if n.ReadAt == nil {
				n.ReadAt = &at
			}
			s.notifs[userID][i] = n
			return n, nil
		}
	}
	return model.Notification{}, repository.ErrNotFound
}

func (s *stubRepo) DeleteNotification(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.notifs[userID]
	for i, n := range list {
		if n.ID == id {
			s.notifs[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *stubRepo) put(collection string, v model.Entity) {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]json.RawMessage)
	}
	s.docs[collection][v.EntityID()] = raw
}

func (s *stubRepo) product(id string) model.Product {
	var p model.Product
	_ = json.Unmarshal(s.docs["products"][id], &p)
	return p
}

func (s *stubRepo) purchaseOrder(id string) model.PurchaseOrder {
	var po model.PurchaseOrder
	_ = json.Unmarshal(s.docs["purchaseorders"][id], &po)
	return po
}

type stubMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *stubMailer) Send(ctx context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg.To)
	return m.err
}
