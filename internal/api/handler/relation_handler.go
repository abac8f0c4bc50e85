package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/newsfeed/internal/api/middleware"
	"github.com/d60-Lab/newsfeed/pkg/response"
)

// Follow makes the caller follow user_id.
// @Summary Follow a user
// @Tags relationships
// @Produce json
// @Param user_id path string true "User to follow"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Security BearerAuth
// @Router /users/{user_id}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	followerID := middleware.UserID(c)
	followingID := c.Param("user_id")
	if err := h.relSvc.Follow(c.Request.Context(), followerID, followingID); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"followerId": followerID, "followingId": followingID}, "Successfully followed user")
}

// Unfollow removes the caller's follow of user_id.
// @Summary Unfollow a user
// @Tags relationships
// @Produce json
// @Param user_id path string true "User to unfollow"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /users/{user_id}/follow [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	if err := h.relSvc.Unfollow(c.Request.Context(), middleware.UserID(c), c.Param("user_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{})
}

// ListFollowing pages the users user_id follows.
// @Summary List following
// @Tags relationships
// @Produce json
// @Param user_id path string true "User ID"
// @Param limit query int false "Page size (1-50)" default(20)
// @Param nextToken query string false "Continuation token"
// @Success 200 {object} response.PaginatedResponse
// @Router /users/{user_id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	limit, token, ok := pageParams(c)
	if !ok {
		return
	}
	page, err := h.relSvc.ListFollowing(c.Request.Context(), c.Param("user_id"), limit, token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, page.Profiles, page.NextToken, page.HasMore)
}

// ListFollowers pages the users following user_id.
// @Summary List followers
// @Tags relationships
// @Produce json
// @Param user_id path string true "User ID"
// @Param limit query int false "Page size (1-50)" default(20)
// @Param nextToken query string false "Continuation token"
// @Success 200 {object} response.PaginatedResponse
// @Router /users/{user_id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	limit, token, ok := pageParams(c)
	if !ok {
		return
	}
	page, err := h.relSvc.ListFollowers(c.Request.Context(), c.Param("user_id"), limit, token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, page.Profiles, page.NextToken, page.HasMore)
}
