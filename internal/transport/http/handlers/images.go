package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexandre-hallaine/Camagru/internal/transport/http/middleware"
	"github.com/alexandre-hallaine/Camagru/internal/usecase"
)

// ImagesHandler exposes the gallery feed and image mutations.
type ImagesHandler struct {
	gallery *usecase.GalleryService
}

// NewImagesHandler constructs the images handler.
func NewImagesHandler(gallery *usecase.GalleryService) *ImagesHandler {
	return &ImagesHandler{gallery: gallery}
}

// Feed returns one page of the newest-first gallery. Anonymous viewers get
// the same page with every liked flag false.
func (h *ImagesHandler) Feed(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	viewerID := middleware.UserIDFromContext(c)

	feed, err := h.gallery.Feed(c.Request.Context(), viewerID, page)
	if err != nil {
		c.Error(err) //nolint:errcheck
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load feed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page, "images": feed})
}

// Create stores a posted picture.
func (h *ImagesHandler) Create(c *gin.Context) {
	var req ImageCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid image payload"))
		return
	}

	image, err := h.gallery.CreateImage(c.Request.Context(), middleware.UserIDFromContext(c), req.Content)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidImage, Status: http.StatusBadRequest, Message: "image content must be a data URL"},
		}, http.StatusInternalServerError, "failed to store image")
		return
	}

	c.JSON(http.StatusCreated, ImageResponse{ID: image.ID, CreatedAt: image.CreatedAt})
}

// Delete removes the caller's own image.
func (h *ImagesHandler) Delete(c *gin.Context) {
	err := h.gallery.DeleteImage(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrImageNotFound, Status: http.StatusNotFound, Message: "image not found"},
		}, http.StatusInternalServerError, "failed to delete image")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "image deleted"})
}

// Like toggles the caller's like on an image.
func (h *ImagesHandler) Like(c *gin.Context) {
	liked, err := h.gallery.ToggleLike(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrImageNotFound, Status: http.StatusNotFound, Message: "image not found"},
		}, http.StatusInternalServerError, "failed to toggle like")
		return
	}

	c.JSON(http.StatusOK, LikeResponse{Liked: liked})
}

// Comment records a remark on an image.
func (h *ImagesHandler) Comment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid comment payload"))
		return
	}

	comment, err := h.gallery.Comment(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req.Body)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrImageNotFound, Status: http.StatusNotFound, Message: "image not found"},
			{Err: usecase.ErrEmptyComment, Status: http.StatusBadRequest, Message: "comment body is required"},
		}, http.StatusInternalServerError, "failed to store comment")
		return
	}

	c.JSON(http.StatusCreated, CommentResponse{ID: comment.ID, Body: comment.Body, CreatedAt: comment.CreatedAt})
}
