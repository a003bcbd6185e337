// Package handoff manages admin hand-off requests: the record created when a
// user asks to talk to a human so an administrator can pick the conversation
// up. The classifier triggers creation as a best-effort side effect; the chat
// frontend consumes the records elsewhere.
package handoff

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a hand-off request.
type Status string

const (
	// StatusAwaiting means no administrator has picked the request up yet.
	StatusAwaiting Status = "AWAITING"

	// StatusActive means an administrator is in the conversation.
	StatusActive Status = "ACTIVE"

	// StatusClosed means the conversation has ended.
	StatusClosed Status = "CLOSED"
)

// Request is a single admin hand-off record.
type Request struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Message   string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Service creates and reuses hand-off requests.
//
// Implementations must be safe for concurrent use.
type Service interface {
	// CreateAwaiting ensures an AWAITING request exists for userID. When one
	// is already pending its message and timestamp are refreshed — a user
	// asking twice does not produce two records.
	CreateAwaiting(ctx context.Context, userID uuid.UUID, message string) (*Request, error)
}

// MemStore is an in-memory Service used when no database is configured and in
// tests. Safe for concurrent use.
type MemStore struct {
	mu      sync.Mutex
	pending map[uuid.UUID]*Request

	// now is swappable for tests.
	now func() time.Time
}

var _ Service = (*MemStore)(nil)

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		pending: make(map[uuid.UUID]*Request),
		now:     time.Now,
	}
}

// CreateAwaiting implements [Service].
func (s *MemStore) CreateAwaiting(_ context.Context, userID uuid.UUID, message string) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if r, ok := s.pending[userID]; ok {
		r.Message = message
		r.UpdatedAt = now
		cp := *r
		return &cp, nil
	}

	r := &Request{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   message,
		Status:    StatusAwaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.pending[userID] = r
	cp := *r
	return &cp, nil
}

// Pending returns the number of awaiting requests. Used by tests and the
// readiness endpoint.
func (s *MemStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
