package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"feedboard/apperr"
	"feedboard/services"
	"feedboard/storage"
)

type FeedHandler struct {
	posts  *services.PostService
	assets storage.AssetStore
}

func NewFeedHandler(posts *services.PostService, assets storage.AssetStore) *FeedHandler {
	return &FeedHandler{posts: posts, assets: assets}
}

func (h *FeedHandler) GetPosts(c *gin.Context) {
	page, _ := strconv.ParseInt(c.Query("page"), 10, 64)

	posts, total, err := h.posts.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Posts fetched.",
		"posts":      posts,
		"totalItems": total,
	})
}

func (h *FeedHandler) GetPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		respondError(c, apperr.NotFound("post not found"))
		return
	}

	post, err := h.posts.Get(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post found.",
		"post":    post,
	})
}

func (h *FeedHandler) CreatePost(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	upload, err := formImage(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if upload == nil {
		respondError(c, apperr.Validation("an image is required"))
		return
	}
	defer upload.close()

	post, err := h.posts.Create(c.Request.Context(), userID, services.CreatePostInput{
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
		Image:   &upload.Upload,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully.",
		"post":    post,
		"creator": post.Creator,
	})
}

func (h *FeedHandler) UpdatePost(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		respondError(c, apperr.NotFound("post not found"))
		return
	}

	input := services.UpdatePostInput{
		Title:    c.PostForm("title"),
		Content:  c.PostForm("content"),
		ImageRef: c.PostForm("image"),
	}

	upload, err := formImage(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if upload != nil {
		defer upload.close()
		input.Image = &upload.Upload
	}

	post, err := h.posts.Update(c.Request.Context(), userID, postID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post updated.",
		"post":    post,
	})
}

func (h *FeedHandler) DeletePost(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		respondError(c, apperr.NotFound("post not found"))
		return
	}

	deletedID, err := h.posts.Delete(c.Request.Context(), userID, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post deleted.",
		"result":  deletedID.Hex(),
	})
}

// UploadImage stores an image ahead of a typed-query createPost/updatePost
// call and returns the asset reference. When oldPath is supplied the
// replaced asset is removed best-effort.
func (h *FeedHandler) UploadImage(c *gin.Context) {
	if _, ok := actorID(c); !ok {
		return
	}

	upload, err := formImage(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if upload == nil {
		c.JSON(http.StatusOK, gin.H{"message": "No file provided"})
		return
	}
	defer upload.close()

	ref, err := h.assets.Store(c.Request.Context(), upload.Upload)
	if err != nil {
		respondError(c, apperr.Internal("store image", err))
		return
	}

	if oldPath := c.PostForm("oldPath"); oldPath != "" {
		if err := h.assets.Remove(oldPath); err != nil {
			log.Printf("Failed to remove replaced asset %s: %v", oldPath, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "File stored.",
		"filePath": ref,
	})
}

type formUpload struct {
	storage.Upload
	close func() error
}

// formImage pulls the multipart "image" file part, if any.
func formImage(c *gin.Context) (*formUpload, error) {
	file, err := c.FormFile("image")
	if err != nil {
		// Missing file part or a non-multipart body both mean "no upload".
		return nil, nil
	}

	f, err := file.Open()
	if err != nil {
		return nil, apperr.Internal("open uploaded file", err)
	}

	return &formUpload{
		Upload: storage.Upload{Name: file.Filename, Reader: f},
		close:  f.Close,
	}, nil
}
