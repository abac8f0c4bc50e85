package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/newsfeed/internal/service"
	"github.com/d60-Lab/newsfeed/pkg/metrics"
	"github.com/d60-Lab/newsfeed/pkg/response"
)

type Handler struct {
	userSvc service.UserService
	postSvc service.PostService
	relSvc  service.RelationshipService
	feedSvc service.FeedService
	m       *metrics.Metrics // optional
}

func New(userSvc service.UserService, postSvc service.PostService, relSvc service.RelationshipService, feedSvc service.FeedService, m *metrics.Metrics) *Handler {
	return &Handler{userSvc: userSvc, postSvc: postSvc, relSvc: relSvc, feedSvc: feedSvc, m: m}
}

// pageParams parses the shared limit/nextToken query pair. A
// non-numeric limit is rejected here; range checks belong to the
// services.
func pageParams(c *gin.Context) (limit int, token string, ok bool) {
	raw := c.DefaultQuery("limit", "")
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "Invalid limit")
			return 0, "", false
		}
		limit = n
	}
	return limit, c.Query("nextToken"), true
}
