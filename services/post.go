package services

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"feedboard/apperr"
	"feedboard/models"
	"feedboard/notify"
	"feedboard/storage"
	"feedboard/store"
)

const minTextLength = 5

// CreatePostInput carries a new post's fields. The image arrives either as a
// raw upload (REST multipart) or as an already-stored asset reference (the
// typed-query surface uploads through PUT /post-image first).
type CreatePostInput struct {
	Title    string
	Content  string
	Image    *storage.Upload
	ImageRef string
}

// UpdatePostInput mirrors CreatePostInput; both image fields are optional
// and an unchanged reference leaves the stored asset alone.
type UpdatePostInput struct {
	Title    string
	Content  string
	Image    *storage.Upload
	ImageRef string
}

// PostService is the single place post mutations happen. It owns the
// ordering contract (existence before ownership before input validation),
// the post/asset lifecycle coupling and the user back-reference updates.
type PostService struct {
	posts     store.PostStore
	users     *UserService
	assets    storage.AssetStore
	publisher notify.Publisher
	perPage   int64
}

func NewPostService(posts store.PostStore, users *UserService, assets storage.AssetStore, publisher notify.Publisher, perPage int64) *PostService {
	if perPage <= 0 {
		perPage = 2
	}
	return &PostService{
		posts:     posts,
		users:     users,
		assets:    assets,
		publisher: publisher,
		perPage:   perPage,
	}
}

// List returns one page of posts, newest first, with the creator summary
// populated. The total count is always the unfiltered post count. A page of
// zero or less is treated as page one.
func (s *PostService) List(ctx context.Context, page int64) ([]models.Post, int64, error) {
	if page <= 0 {
		page = 1
	}

	total, err := s.posts.Count(ctx)
	if err != nil {
		return nil, 0, apperr.Internal("count posts", err)
	}

	// A page this large is necessarily past the end; computing its offset
	// would overflow into a negative skip.
	if page-1 > math.MaxInt64/s.perPage {
		return []models.Post{}, total, nil
	}

	posts, err := s.posts.List(ctx, (page-1)*s.perPage, s.perPage)
	if err != nil {
		return nil, 0, apperr.Internal("list posts", err)
	}
	return posts, total, nil
}

func (s *PostService) Get(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("post not found")
	}
	if err != nil {
		return nil, apperr.Internal("get post", err)
	}
	return post, nil
}

// Create validates the input, stores the image, inserts the post and appends
// the id to the creator's post set. The two document writes are independent;
// a crash between them leaves an orphaned post, which is accepted (the store
// gives no cross-document transaction).
func (s *PostService) Create(ctx context.Context, actorID primitive.ObjectID, in CreatePostInput) (*models.Post, error) {
	if err := validatePostInput(in.Title, in.Content); err != nil {
		return nil, err
	}

	creator, err := s.users.Get(ctx, actorID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Unauthenticated("user for this token no longer exists")
		}
		return nil, err
	}

	imageRef := in.ImageRef
	if in.Image != nil {
		imageRef, err = s.assets.Store(ctx, *in.Image)
		if err != nil {
			return nil, apperr.Internal("store image", err)
		}
	}
	if imageRef == "" {
		return nil, apperr.Validation("an image is required")
	}

	post := &models.Post{
		Title:     strings.TrimSpace(in.Title),
		Content:   strings.TrimSpace(in.Content),
		ImageRef:  imageRef,
		CreatorID: actorID,
	}

	if _, err := s.posts.Insert(ctx, post); err != nil {
		if in.Image != nil {
			s.removeAsset(imageRef)
		}
		return nil, apperr.Internal("insert post", err)
	}

	if err := s.users.AddPostRef(ctx, actorID, post.ID); err != nil {
		// The post document exists but the back-reference write failed;
		// surface the error rather than hide the inconsistency.
		return nil, err
	}

	summary := creator.Summary()
	post.Creator = &summary
	s.publisher.Publish(notify.EventPostCreated, post)

	return post, nil
}

// Update mutates a post's title, content and optionally its image. The old
// asset is removed only after the new reference is durably on the document,
// so a partial failure can orphan a file but never dangle a reference.
func (s *PostService) Update(ctx context.Context, actorID, postID primitive.ObjectID, in UpdatePostInput) (*models.Post, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	if dec := OwnerOnly(actorID, post.CreatorID); !dec.Allowed {
		return nil, apperr.Forbidden(dec.Reason)
	}

	if err := validatePostInput(in.Title, in.Content); err != nil {
		return nil, err
	}

	oldRef := post.ImageRef
	newRef := ""
	if in.Image != nil {
		newRef, err = s.assets.Store(ctx, *in.Image)
		if err != nil {
			return nil, apperr.Internal("store image", err)
		}
	} else if in.ImageRef != "" && in.ImageRef != oldRef {
		newRef = in.ImageRef
	}

	post.Title = strings.TrimSpace(in.Title)
	post.Content = strings.TrimSpace(in.Content)
	if newRef != "" {
		post.ImageRef = newRef
	}

	if err := s.posts.Update(ctx, post); err != nil {
		if newRef != "" && in.Image != nil {
			s.removeAsset(newRef)
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, apperr.Internal("update post", err)
	}

	if newRef != "" && oldRef != newRef {
		s.removeAsset(oldRef)
	}

	if err := s.populateCreator(ctx, post); err != nil {
		return nil, err
	}
	s.publisher.Publish(notify.EventPostUpdated, post)

	return post, nil
}

// Delete removes the post, its asset, the owner's back-reference, and
// broadcasts the deleted id. Asset removal is best-effort.
func (s *PostService) Delete(ctx context.Context, actorID, postID primitive.ObjectID) (primitive.ObjectID, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return primitive.NilObjectID, err
	}

	if dec := OwnerOnly(actorID, post.CreatorID); !dec.Allowed {
		return primitive.NilObjectID, apperr.Forbidden(dec.Reason)
	}

	s.removeAsset(post.ImageRef)

	if err := s.posts.Delete(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return primitive.NilObjectID, apperr.NotFound("post not found")
		}
		return primitive.NilObjectID, apperr.Internal("delete post", err)
	}

	if err := s.users.RemovePostRef(ctx, post.CreatorID, postID); err != nil {
		return primitive.NilObjectID, err
	}

	s.publisher.Publish(notify.EventPostDeleted, postID.Hex())

	return postID, nil
}

func (s *PostService) populateCreator(ctx context.Context, post *models.Post) error {
	if post.Creator != nil {
		return nil
	}
	creator, err := s.users.Get(ctx, post.CreatorID)
	if err != nil {
		return err
	}
	summary := creator.Summary()
	post.Creator = &summary
	return nil
}

func (s *PostService) removeAsset(ref string) {
	if err := s.assets.Remove(ref); err != nil {
		log.Printf("Failed to remove asset %s: %v", ref, err)
	}
}

func validatePostInput(title, content string) error {
	if utf8.RuneCountInString(strings.TrimSpace(title)) < minTextLength {
		return apperr.Validation("title must be at least 5 characters long")
	}
	if utf8.RuneCountInString(strings.TrimSpace(content)) < minTextLength {
		return apperr.Validation("content must be at least 5 characters long")
	}
	return nil
}
