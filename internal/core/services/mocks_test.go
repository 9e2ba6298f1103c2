package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"snapland/internal/core/domain"

	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct {
	mu       sync.Mutex
	statuses []domain.UserPresence
	byEmail  map[string]*domain.User
	setCalls []setActiveCall
	listErr  error
	setErr   error
}

type setActiveCall struct {
	id     uuid.UUID
	active bool
}

func newFakeUserRepo(statuses ...domain.UserPresence) *fakeUserRepo {
	return &fakeUserRepo{statuses: statuses, byEmail: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) ListStatuses(_ context.Context) ([]domain.UserPresence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.UserPresence, len(r.statuses))
	copy(out, r.statuses)
	return out, nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	r.setCalls = append(r.setCalls, setActiveCall{id: id, active: active})
	return nil
}

// fakeConn records what was sent to it; blockSend simulates a hung client.
type fakeConn struct {
	id        uuid.UUID
	userID    uuid.UUID
	mu        sync.Mutex
	alive     bool
	blockSend bool
	sent      [][]byte
}

func newFakeConn(userID uuid.UUID) *fakeConn {
	return &fakeConn{id: uuid.New(), userID: userID, alive: true}
}

func (c *fakeConn) ID() uuid.UUID     { return c.id }
func (c *fakeConn) UserID() uuid.UUID { return c.userID }

func (c *fakeConn) IsAlive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alive
}

func (c *fakeConn) Send(ctx context.Context, data []byte) error {
	c.mu.Lock()
	blocked := c.blockSend
	c.mu.Unlock()
	if blocked {
		<-ctx.Done()
		return ctx.Err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, data)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alive = false
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.sent))
	copy(out, c.sent)
	return out
}

type fakeQueue struct {
	mu         sync.Mutex
	published  map[string][][]byte
	publishErr error
	acked      []string
	deleted    []string
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{published: make(map[string][][]byte)}
}

func (q *fakeQueue) PublishToStream(_ context.Context, topic string, payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.publishErr != nil {
		return q.publishErr
	}
	q.published[topic] = append(q.published[topic], payload)
	return nil
}

func (q *fakeQueue) SubscribeToStream(ctx context.Context, _, _ string, _ func(context.Context, string, []byte) error) error {
	<-ctx.Done()
	return ctx.Err()
}

func (q *fakeQueue) AcknowledgeMessage(_ context.Context, _, _, msgID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.acked = append(q.acked, msgID)
	return nil
}

func (q *fakeQueue) DeleteMessage(_ context.Context, _, msgID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deleted = append(q.deleted, msgID)
	return nil
}

// noopAudit satisfies the audit trail without a queue behind it.
type noopAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *noopAudit) Record(_ context.Context, _ uuid.UUID, action, _ string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
}
