package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/social-feed/backend/internal/apperr"
	"github.com/emilythestrangee/social-feed/backend/internal/models"
	"github.com/emilythestrangee/social-feed/backend/internal/posts"
)

type PostHandler struct {
	posts *posts.Service
}

func NewPostHandler(svc *posts.Service) *PostHandler {
	return &PostHandler{posts: svc}
}

// GetPosts returns every post, newest first, with author, comments and
// interactions.
func (h *PostHandler) GetPosts(c *gin.Context) {
	list, err := h.posts.ListPosts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetPost returns a single post by ID
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.posts.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost accepts either JSON {text, image} or a multipart form with a text
// field and an optional image file.
func (h *PostHandler) CreatePost(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var in posts.CreatePostInput
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		var form models.CreatePostRequest
		if err := c.ShouldBind(&form); err != nil {
			badRequest(c, "Invalid form data")
			return
		}
		in.Text, in.ImageRef = form.Text, form.Image

		fh, err := c.FormFile("image")
		switch {
		case err == nil:
			f, err := fh.Open()
			if err != nil {
				respondError(c, apperr.Wrap(apperr.InvalidArgument, err, "Failed to read image"))
				return
			}
			defer f.Close()
			in.Image = f
		case !errors.Is(err, http.ErrMissingFile):
			badRequest(c, "Invalid image upload")
			return
		}
	} else {
		var body models.CreatePostRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		in.Text, in.ImageRef = body.Text, body.Image
	}

	post, err := h.posts.CreatePost(c.Request.Context(), p, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// UpdatePost updates an existing post (PROTECTED - requires ownership)
func (h *PostHandler) UpdatePost(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var input models.UpdatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	post, err := h.posts.UpdatePost(c.Request.Context(), p, c.Param("id"), input.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post with its comments and interactions (PROTECTED -
// requires ownership)
func (h *PostHandler) DeletePost(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	if err := h.posts.DeletePost(c.Request.Context(), p, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
