package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/newsfeed/internal/api/middleware"
	"github.com/d60-Lab/newsfeed/internal/service"
	"github.com/d60-Lab/newsfeed/pkg/response"
)

// CreateUser registers a new profile.
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param request body service.CreateUserInput true "Profile fields"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var in service.CreateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Email, username, and displayName are required")
		return
	}
	profile, err := h.userSvc.Create(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, profile, "User created successfully")
}

// GetUser returns a public profile.
// @Summary Get user
// @Tags users
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{user_id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	profile, err := h.userSvc.Get(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

// UpdateProfile edits the caller's mutable profile fields.
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body service.UpdateProfileInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Security BearerAuth
// @Router /profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var in service.UpdateProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Request body is required")
		return
	}
	profile, err := h.userSvc.UpdateProfile(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

// ListUserPosts returns one page of a user's own posts.
// @Summary List a user's posts
// @Tags users
// @Produce json
// @Param user_id path string true "User ID"
// @Param limit query int false "Page size (1-50)" default(20)
// @Param nextToken query string false "Continuation token"
// @Success 200 {object} response.PaginatedResponse
// @Failure 400 {object} response.Response
// @Router /users/{user_id}/posts [get]
func (h *Handler) ListUserPosts(c *gin.Context) {
	limit, token, ok := pageParams(c)
	if !ok {
		return
	}
	page, err := h.postSvc.ListByAuthor(c.Request.Context(), c.Param("user_id"), limit, token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, page.Posts, page.NextToken, page.HasMore)
}
