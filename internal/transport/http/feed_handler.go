package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/meenatech/ghumakad-api/internal/media"
	"github.com/meenatech/ghumakad-api/internal/service"
	"github.com/meenatech/ghumakad-api/internal/util"
)

type FeedHandler struct {
	feed          *service.FeedService
	imageMaxBytes int64
}

func NewFeedHandler(feed *service.FeedService, imageMaxBytes int64) *FeedHandler {
	return &FeedHandler{feed: feed, imageMaxBytes: imageMaxBytes}
}

func (h *FeedHandler) RegisterRoutes(g *echo.Group, requireAuth, optionalAuth echo.MiddlewareFunc) {
	g.GET("/feed", h.Feed, optionalAuth)
	g.POST("/posts", h.CreatePost, requireAuth)
	g.DELETE("/posts/:post_id", h.DeletePost, requireAuth)
	g.POST("/posts/:post_id/likes", h.LikePost, requireAuth)
	g.DELETE("/posts/:post_id/likes", h.UnlikePost, requireAuth)
	g.POST("/users/:user_id/follow", h.FollowUser, requireAuth)
	g.DELETE("/users/:user_id/follow", h.UnfollowUser, requireAuth)
}

// Feed godoc
// @Summary      List recent community posts with viewer-relative fields
// @Tags         feed
// @Produce      json
// @Param        page query int false "page number, starting at 1"
// @Success      200 {object} util.Envelope
// @Router       /feed [get]
func (h *FeedHandler) Feed(c echo.Context) error {
	var viewer *uuid.UUID
	if user := CurrentUser(c); user != nil {
		viewer = &user.ID
	}

	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		fmt.Sscanf(raw, "%d", &page)
	}

	posts, err := h.feed.Feed(c.Request().Context(), viewer, page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not load feed"))
	}
	return c.JSON(http.StatusOK, util.Data("posts", posts))
}

// CreatePost godoc
// @Summary      Publish a post, optionally with an image
// @Tags         feed
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        content formData string false "post text"
// @Param        location_name formData string false "tagged location"
// @Param        image formData file false "attached image"
// @Success      201 {object} domain.Post
// @Failure      400 {object} util.Envelope
// @Router       /posts [post]
func (h *FeedHandler) CreatePost(c echo.Context) error {
	user := CurrentUser(c)
	content := c.FormValue("content")

	var locationName *string
	if loc := c.FormValue("location_name"); loc != "" {
		locationName = &loc
	}

	var upload *media.Upload
	if file, err := c.FormFile("image"); err == nil && file != nil {
		if file.Size > h.imageMaxBytes {
			return c.JSON(http.StatusRequestEntityTooLarge,
				util.Error(fmt.Sprintf("image exceeds %d bytes", h.imageMaxBytes)))
		}
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("could not read image"))
		}
		defer src.Close()
		upload = &media.Upload{
			Reader:      src,
			Size:        file.Size,
			FileName:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
		}
	}

	post, err := h.feed.CreatePost(c.Request().Context(), user.ID, content, locationName, upload)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	return c.JSON(http.StatusCreated, post)
}

// DeletePost godoc
// @Summary      Delete one of the caller's posts
// @Tags         feed
// @Security     BearerAuth
// @Param        post_id path string true "post id"
// @Success      204
// @Failure      404 {object} util.Envelope
// @Router       /posts/{post_id} [delete]
func (h *FeedHandler) DeletePost(c echo.Context) error {
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid post id"))
	}

	user := CurrentUser(c)
	if err := h.feed.DeletePost(c.Request().Context(), postID, user.ID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("could not delete post"))
	}
	return c.NoContent(http.StatusNoContent)
}

// LikePost godoc
// @Summary      Like a post
// @Tags         feed
// @Security     BearerAuth
// @Param        post_id path string true "post id"
// @Success      204
// @Router       /posts/{post_id}/likes [post]
func (h *FeedHandler) LikePost(c echo.Context) error {
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid post id"))
	}

	user := CurrentUser(c)
	if err := h.feed.LikePost(c.Request().Context(), user.ID, postID); err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not like post"))
	}
	return c.NoContent(http.StatusNoContent)
}

// UnlikePost godoc
// @Summary      Remove the caller's like from a post
// @Tags         feed
// @Security     BearerAuth
// @Param        post_id path string true "post id"
// @Success      204
// @Router       /posts/{post_id}/likes [delete]
func (h *FeedHandler) UnlikePost(c echo.Context) error {
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid post id"))
	}

	user := CurrentUser(c)
	if err := h.feed.UnlikePost(c.Request().Context(), user.ID, postID); err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not unlike post"))
	}
	return c.NoContent(http.StatusNoContent)
}

// FollowUser godoc
// @Summary      Follow another traveler
// @Tags         feed
// @Security     BearerAuth
// @Param        user_id path string true "user id to follow"
// @Success      204
// @Failure      400 {object} util.Envelope
// @Router       /users/{user_id}/follow [post]
func (h *FeedHandler) FollowUser(c echo.Context) error {
	followedID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid user id"))
	}

	user := CurrentUser(c)
	if err := h.feed.FollowUser(c.Request().Context(), user.ID, followedID); err != nil {
		if errors.Is(err, service.ErrSelfFollow) {
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("could not follow user"))
	}
	return c.NoContent(http.StatusNoContent)
}

// UnfollowUser godoc
// @Summary      Unfollow another traveler
// @Tags         feed
// @Security     BearerAuth
// @Param        user_id path string true "user id to unfollow"
// @Success      204
// @Router       /users/{user_id}/follow [delete]
func (h *FeedHandler) UnfollowUser(c echo.Context) error {
	followedID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid user id"))
	}

	user := CurrentUser(c)
	if err := h.feed.UnfollowUser(c.Request().Context(), user.ID, followedID); err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not unfollow user"))
	}
	return c.NoContent(http.StatusNoContent)
}
