// Package memstore is an in-memory implementation of the store contract.
// It backs unit tests for the service layer and the API adapters; it keeps
// the same single-document atomicity promise as the Mongo implementation.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"feedboard/models"
	"feedboard/store"
)

type Store struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*models.User
	posts map[primitive.ObjectID]*models.Post
	seq   int64
}

func New() *Store {
	return &Store{
		users: make(map[primitive.ObjectID]*models.User),
		posts: make(map[primitive.ObjectID]*models.Post),
	}
}

func (s *Store) Users() store.UserStore { return (*userStore)(s) }
func (s *Store) Posts() store.PostStore { return (*postStore)(s) }

// now hands out strictly increasing timestamps so createdAt ordering is
// deterministic even for back-to-back inserts.
func (s *Store) now() time.Time {
	s.seq++
	return time.Now().UTC().Add(time.Duration(s.seq) * time.Microsecond)
}

type userStore Store

func (s *userStore) Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, store.ErrDuplicate
		}
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = (*Store)(s).now()
	if user.Posts == nil {
		user.Posts = []primitive.ObjectID{}
	}

	clone := *user
	s.users[user.ID] = &clone
	return user.ID, nil
}

func (s *userStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *user
	clone.Posts = append([]primitive.ObjectID(nil), user.Posts...)
	return &clone, nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			clone.Posts = append([]primitive.ObjectID(nil), user.Posts...)
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *userStore) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.Status = status
	return nil
}

func (s *userStore) AddPostRef(ctx context.Context, userID, postID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	for _, id := range user.Posts {
		if id == postID {
			return nil
		}
	}
	user.Posts = append(user.Posts, postID)
	return nil
}

func (s *userStore) RemovePostRef(ctx context.Context, userID, postID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	kept := user.Posts[:0]
	for _, id := range user.Posts {
		if id != postID {
			kept = append(kept, id)
		}
	}
	user.Posts = kept
	return nil
}

type postStore Store

func (s *postStore) Insert(ctx context.Context, post *models.Post) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	now := (*Store)(s).now()
	post.CreatedAt = now
	post.UpdatedAt = now

	clone := *post
	clone.Creator = nil
	s.posts[post.ID] = &clone
	return post.ID, nil
}

func (s *postStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *post
	return &clone, nil
}

func (s *postStore) List(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		clone := *post
		if creator, ok := s.users[post.CreatorID]; ok {
			summary := creator.Summary()
			clone.Creator = &summary
		}
		all = append(all, clone)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if skip < 0 || skip >= int64(len(all)) {
		return []models.Post{}, nil
	}
	all = all[skip:]
	if limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (s *postStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.posts)), nil
}

func (s *postStore) Update(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[post.ID]
	if !ok {
		return store.ErrNotFound
	}
	post.UpdatedAt = (*Store)(s).now()
	existing.Title = post.Title
	existing.Content = post.Content
	existing.ImageRef = post.ImageRef
	existing.UpdatedAt = post.UpdatedAt
	return nil
}

func (s *postStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}
