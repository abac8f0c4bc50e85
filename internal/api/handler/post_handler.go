package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/newsfeed/internal/api/middleware"
	"github.com/d60-Lab/newsfeed/pkg/response"
)

type createPostRequest struct {
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"imageUrl"`
}

type createCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreatePost publishes a post by the caller.
// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body createPostRequest true "Post content"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Security BearerAuth
// @Router /posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Content is required")
		return
	}
	post, err := h.postSvc.Create(c.Request.Context(), middleware.UserID(c), req.Content, req.ImageURL)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, post, "Post created successfully")
}

// GetPost returns a single post with its author attached.
// @Summary Get post
// @Tags posts
// @Produce json
// @Param post_id path string true "Post ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /posts/{post_id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.postSvc.Get(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// DeletePost removes the caller's post and its derived rows.
// @Summary Delete post
// @Tags posts
// @Produce json
// @Param post_id path string true "Post ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /posts/{post_id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.postSvc.Delete(c.Request.Context(), c.Param("post_id"), middleware.UserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{})
}

// LikePost likes a post once per user.
// @Summary Like post
// @Tags posts
// @Produce json
// @Param post_id path string true "Post ID"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Security BearerAuth
// @Router /posts/{post_id}/like [post]
func (h *Handler) LikePost(c *gin.Context) {
	if err := h.postSvc.Like(c.Request.Context(), c.Param("post_id"), middleware.UserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{}, "Post liked")
}

// UnlikePost removes the caller's like.
// @Summary Unlike post
// @Tags posts
// @Produce json
// @Param post_id path string true "Post ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /posts/{post_id}/like [delete]
func (h *Handler) UnlikePost(c *gin.Context) {
	if err := h.postSvc.Unlike(c.Request.Context(), c.Param("post_id"), middleware.UserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{})
}

// CreateComment comments on a post.
// @Summary Comment on post
// @Tags posts
// @Accept json
// @Produce json
// @Param post_id path string true "Post ID"
// @Param request body createCommentRequest true "Comment content"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /posts/{post_id}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Content is required")
		return
	}
	comment, err := h.postSvc.Comment(c.Request.Context(), c.Param("post_id"), middleware.UserID(c), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment, "Comment created successfully")
}

// ListComments pages a post's comments, newest first.
// @Summary List comments
// @Tags posts
// @Produce json
// @Param post_id path string true "Post ID"
// @Param limit query int false "Page size (1-50)" default(20)
// @Param nextToken query string false "Continuation token"
// @Success 200 {object} response.PaginatedResponse
// @Router /posts/{post_id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	limit, token, ok := pageParams(c)
	if !ok {
		return
	}
	page, err := h.postSvc.ListComments(c.Request.Context(), c.Param("post_id"), limit, token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, page.Comments, page.NextToken, page.HasMore)
}
