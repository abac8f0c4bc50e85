package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/newsfeed/internal/api/middleware"
	"github.com/d60-Lab/newsfeed/pkg/response"
)

// GetFeed returns one page of the viewer's timeline.
// @Summary Read the personalized feed
// @Tags feed
// @Produce json
// @Param limit query int false "Page size (1-50)" default(20)
// @Param nextToken query string false "Continuation token from the previous page"
// @Success 200 {object} response.PaginatedResponse
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 500 {object} response.Response
// @Security BearerAuth
// @Router /feed [get]
func (h *Handler) GetFeed(c *gin.Context) {
	limit, token, ok := pageParams(c)
	if !ok {
		h.countFeed("bad_request")
		return
	}
	page, err := h.feedSvc.GetFeed(c.Request.Context(), middleware.UserID(c), limit, token)
	if err != nil {
		h.countFeed("error")
		response.Error(c, err)
		return
	}
	h.countFeed("ok")
	response.Paginated(c, page.Posts, page.NextToken, page.HasMore)
}

func (h *Handler) countFeed(outcome string) {
	if h.m != nil {
		h.m.FeedRequests.WithLabelValues(outcome).Inc()
	}
}
