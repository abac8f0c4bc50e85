package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/newsfeed/internal/model"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.FeedEntry{}, &model.Relationship{}))
	return New(db)
}

func entry(user, post string, score int64) model.FeedEntry {
	return model.FeedEntry{
		ID:       fmt.Sprintf("%s-%s", user, post),
		UserID:   user,
		PostID:   post,
		AuthorID: "author",
		Score:    score,
	}
}

func TestGetAbsentIsNil(t *testing.T) {
	s := setupStore(t)
	rec, err := Get[model.FeedEntry](context.Background(), s, "id = ?", "nope")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestPutIfAbsent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	rel := &model.Relationship{ID: "r1", FollowerID: "u1", FollowingID: "u2"}
	created, err := PutIfAbsent(ctx, s, rel)
	require.NoError(t, err)
	assert.True(t, created)

	dup := &model.Relationship{ID: "r2", FollowerID: "u1", FollowingID: "u2"}
	created, err = PutIfAbsent(ctx, s, dup)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestBatchGetPartialResults(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	require.NoError(t, Put(ctx, s, &model.FeedEntry{ID: "e1", UserID: "u", PostID: "p1", AuthorID: "a", Score: 1}))

	recs, err := BatchGet[model.FeedEntry](ctx, s, "post_id", []string{"p1", "missing"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "p1", recs[0].PostID)

	recs, err = BatchGet[model.FeedEntry](ctx, s, "post_id", nil)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestDeleteWhereReportsRows(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	require.NoError(t, Put(ctx, s, &model.FeedEntry{ID: "e1", UserID: "u", PostID: "p1", AuthorID: "a", Score: 1}))

	rows, err := DeleteWhere[model.FeedEntry](ctx, s, "post_id = ?", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = DeleteWhere[model.FeedEntry](ctx, s, "post_id = ?", "p1")
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestQueryPageKeyset(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		e := entry("u", fmt.Sprintf("p%d", i), int64(i*10))
		require.NoError(t, Put(ctx, s, &e))
	}

	q := PageQuery{
		Where:      "user_id = ?",
		Args:       []any{"u"},
		SortColumn: "score",
		TieColumn:  "post_id",
		Limit:      2,
	}
	items, cont, err := QueryPage[model.FeedEntry](ctx, s, q)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "p5", items[0].PostID)
	assert.Equal(t, "p4", items[1].PostID)
	require.NotNil(t, cont)
	assert.Equal(t, int64(40), cont.Sort)

	q.StartAfter = cont
	items, cont, err = QueryPage[model.FeedEntry](ctx, s, q)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "p3", items[0].PostID)
	assert.Equal(t, "p2", items[1].PostID)
	require.NotNil(t, cont)

	q.StartAfter = cont
	items, cont, err = QueryPage[model.FeedEntry](ctx, s, q)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].PostID)
	assert.Nil(t, cont)
}

func TestQueryPageTieBreak(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	// Same score: order must still be total (post_id desc) across pages.
	for _, id := range []string{"pa", "pb", "pc"} {
		e := entry("u", id, 100)
		require.NoError(t, Put(ctx, s, &e))
	}

	q := PageQuery{
		Where:      "user_id = ?",
		Args:       []any{"u"},
		SortColumn: "score",
		TieColumn:  "post_id",
		Limit:      2,
	}
	items, cont, err := QueryPage[model.FeedEntry](ctx, s, q)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "pc", items[0].PostID)
	assert.Equal(t, "pb", items[1].PostID)
	require.NotNil(t, cont)

	q.StartAfter = cont
	items, cont, err = QueryPage[model.FeedEntry](ctx, s, q)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "pa", items[0].PostID)
	assert.Nil(t, cont)
}

func TestQueryPageExactBoundary(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	for i := 1; i <= 2; i++ {
		e := entry("u", fmt.Sprintf("p%d", i), int64(i))
		require.NoError(t, Put(ctx, s, &e))
	}

	// Page size equals the row count: no continuation.
	items, cont, err := QueryPage[model.FeedEntry](ctx, s, PageQuery{
		Where: "user_id = ?", Args: []any{"u"},
		SortColumn: "score", TieColumn: "post_id", Limit: 2,
	})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Nil(t, cont)
}
