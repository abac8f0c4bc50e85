package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/newsfeed/internal/apperr"
	"github.com/d60-Lab/newsfeed/pkg/logger"
)

// Response is the JSON envelope every endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PaginatedResponse extends the envelope for cursor-paged reads.
type PaginatedResponse struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	NextToken string `json:"nextToken,omitempty"`
	HasMore   bool   `json:"hasMore"`
	Message   string `json:"message,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func Created(c *gin.Context, data any, message string) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data, Message: message})
}

func Paginated(c *gin.Context, data any, nextToken string, hasMore bool) {
	c.JSON(http.StatusOK, PaginatedResponse{Success: true, Data: data, NextToken: nextToken, HasMore: hasMore})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: message})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Response{Success: false, Error: message})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{Success: false, Error: message})
}

func Conflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, Response{Success: false, Error: message})
}

func InternalError(c *gin.Context, err error) {
	logger.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "Internal server error"})
}

// Error renders err according to its apperr code. Untyped errors are
// treated as internal and logged.
func Error(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	if code == apperr.CodeInternal {
		InternalError(c, err)
		return
	}
	c.JSON(apperr.HTTPStatus(code), Response{Success: false, Error: apperr.MessageOf(err)})
}
