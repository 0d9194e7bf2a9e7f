package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"feedboard/storage"
	"feedboard/store/memstore"
)

// recordingPublisher captures events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Event   string
	Payload interface{}
}

func (p *recordingPublisher) Publish(event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Event: event, Payload: payload})
}

func (p *recordingPublisher) recorded() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

// fakeAssets is an in-memory AssetStore tracking what is stored and removed.
type fakeAssets struct {
	mu      sync.Mutex
	n       int
	stored  map[string]bool
	removed []string
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{stored: map[string]bool{}}
}

func (a *fakeAssets) Store(ctx context.Context, upload storage.Upload) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.n++
	ref := fmt.Sprintf("uploads/asset-%d.png", a.n)
	a.stored[ref] = true
	return ref, nil
}

func (a *fakeAssets) has(ref string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stored[ref]
}

func (a *fakeAssets) removedRefs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.removed...)
}

func (a *fakeAssets) Remove(ref string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.stored[ref] {
		return fmt.Errorf("asset %s not found", ref)
	}
	delete(a.stored, ref)
	a.removed = append(a.removed, ref)
	return nil
}

type testEnv struct {
	store     *memstore.Store
	assets    *fakeAssets
	publisher *recordingPublisher
	auth      *AuthService
	users     *UserService
	posts     *PostService
	tokens    *TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := memstore.New()
	assets := newFakeAssets()
	publisher := &recordingPublisher{}
	tokens := NewTokenManager("test-secret", time.Hour)
	users := NewUserService(st.Users())

	return &testEnv{
		store:     st,
		assets:    assets,
		publisher: publisher,
		tokens:    tokens,
		auth:      NewAuthService(st.Users(), tokens),
		users:     users,
		posts:     NewPostService(st.Posts(), users, assets, publisher, 2),
	}
}

func (e *testEnv) registerUser(t *testing.T, name, email string) primitive.ObjectID {
	t.Helper()
	id, err := e.auth.Register(context.Background(), name, email, "secret123")
	require.NoError(t, err)
	return id
}
