package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/newsfeed/config"
	"github.com/d60-Lab/newsfeed/internal/api/handler"
	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/repository"
	"github.com/d60-Lab/newsfeed/internal/service"
	"github.com/d60-Lab/newsfeed/internal/store"
)

const testSecret = "router-test-secret"

type apiEnv struct {
	router   http.Handler
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	feedRepo repository.FeedRepository
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Post{}, &model.Relationship{},
		&model.FeedEntry{}, &model.Like{}, &model.Comment{}, &model.Outbox{},
	))

	s := store.New(db)
	userRepo := repository.NewUserRepository(s)
	postRepo := repository.NewPostRepository(s)
	relRepo := repository.NewRelationshipRepository(s)
	feedRepo := repository.NewFeedRepository(s)
	likeRepo := repository.NewLikeRepository(s)
	commentRepo := repository.NewCommentRepository(s)
	outboxRepo := repository.NewOutboxRepository(s)

	backfiller := service.NewFeedBackfiller(postRepo, feedRepo, nil, 16, 50)
	userSvc := service.NewUserService(userRepo, nil)
	postSvc := service.NewPostService(postRepo, feedRepo, likeRepo, commentRepo, outboxRepo, userRepo)
	relSvc := service.NewRelationshipService(relRepo, userRepo, backfiller)
	feedSvc := service.NewFeedService(feedRepo, postRepo, userRepo, nil)

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Auth.JWTSecret = testSecret

	h := handler.New(userSvc, postSvc, relSvc, feedSvc, nil)
	return &apiEnv{
		router:   NewRouter(cfg, h),
		userRepo: userRepo,
		postRepo: postRepo,
		feedRepo: feedRepo,
	}
}

func (e *apiEnv) seedUser(t *testing.T, username string) *model.User {
	t.Helper()
	u := &model.User{
		ID:          uuid.New().String(),
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: username,
	}
	require.NoError(t, e.userRepo.Create(context.Background(), u))
	return u
}

func signToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (e *apiEnv) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	env := newAPIEnv(t)
	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFeedRequiresBearerToken(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/feed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "User not authenticated", body["error"])

	w = env.do(t, http.MethodGet, "/api/v1/feed", "not.a.jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFeedEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	viewer := env.seedUser(t, "viewer")
	author := env.seedUser(t, "author")
	ctx := context.Background()

	at := time.Now().Add(-time.Minute)
	post := &model.Post{ID: uuid.New().String(), AuthorID: author.ID, Content: "hi", CreatedAt: at, UpdatedAt: at}
	require.NoError(t, env.postRepo.CreateWithOutbox(ctx, post))
	require.NoError(t, env.feedRepo.InsertAll(ctx, []model.FeedEntry{{
		ID: uuid.New().String(), UserID: viewer.ID, PostID: post.ID,
		AuthorID: author.ID, Score: at.UnixNano(),
	}}))

	token := signToken(t, viewer.ID)
	w := env.do(t, http.MethodGet, "/api/v1/feed", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["hasMore"])
	data, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)

	item := data[0].(map[string]any)
	assert.Equal(t, post.ID, item["postId"])
	authorObj, ok := item["author"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "author", authorObj["username"])
	// The email field never crosses the API boundary.
	_, leaked := authorObj["email"]
	assert.False(t, leaked)
}

func TestFeedLimitValidation(t *testing.T) {
	env := newAPIEnv(t)
	viewer := env.seedUser(t, "viewer")
	token := signToken(t, viewer.ID)

	w := env.do(t, http.MethodGet, "/api/v1/feed?limit=51", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Limit cannot exceed 50", body["error"])

	w = env.do(t, http.MethodGet, "/api/v1/feed?limit=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "Invalid limit", body["error"])
}

func TestCreateUserEndpoint(t *testing.T) {
	env := newAPIEnv(t)

	payload := map[string]string{
		"email":       "alice@example.com",
		"username":    "alice",
		"displayName": "Alice",
	}
	w := env.do(t, http.MethodPost, "/api/v1/users", "", payload)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])

	// Same email again conflicts.
	payload["username"] = "alice2"
	w = env.do(t, http.MethodPost, "/api/v1/users", "", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "User with this email already exists", body["error"])
}

func TestFollowEndpoints(t *testing.T) {
	env := newAPIEnv(t)
	a := env.seedUser(t, "alice")
	b := env.seedUser(t, "bob")
	token := signToken(t, a.ID)

	w := env.do(t, http.MethodPost, "/api/v1/users/"+b.ID+"/follow", token, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/users/"+b.ID+"/follow", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/users/"+b.ID+"/follow", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/users/"+b.ID+"/follow", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePostForbiddenForNonAuthor(t *testing.T) {
	env := newAPIEnv(t)
	author := env.seedUser(t, "alice")
	other := env.seedUser(t, "bob")
	ctx := context.Background()

	post := &model.Post{ID: uuid.New().String(), AuthorID: author.ID, Content: "mine", CreatedAt: time.Now()}
	require.NoError(t, env.postRepo.CreateWithOutbox(ctx, post))

	w := env.do(t, http.MethodDelete, "/api/v1/posts/"+post.ID, signToken(t, other.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/posts/"+post.ID, signToken(t, author.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
