package service

import (
	"context"

	"github.com/d60-Lab/newsfeed/internal/apperr"
	"github.com/d60-Lab/newsfeed/internal/cache"
	"github.com/d60-Lab/newsfeed/internal/cursor"
	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/repository"
)

const (
	// DefaultPageSize applies when the caller sends no usable limit.
	DefaultPageSize = 20
	// MaxPageSize is a hard contract: larger requests are rejected,
	// never truncated.
	MaxPageSize = 50
)

// FeedPage is one reverse-chronological slice of a user's timeline.
type FeedPage struct {
	Posts     []*model.Post
	NextToken string
	HasMore   bool
}

type FeedService interface {
	GetFeed(ctx context.Context, viewerID string, limit int, token string) (*FeedPage, error)
}

type feedService struct {
	feedRepo repository.FeedRepository
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	authors  *cache.AuthorCache // optional
}

func NewFeedService(feedRepo repository.FeedRepository, postRepo repository.PostRepository, userRepo repository.UserRepository, authors *cache.AuthorCache) FeedService {
	return &feedService{feedRepo: feedRepo, postRepo: postRepo, userRepo: userRepo, authors: authors}
}

// GetFeed assembles one timeline page: feed index query, tolerant bulk
// join of posts and authors, continuation token. Pure read path.
func (s *feedService) GetFeed(ctx context.Context, viewerID string, limit int, token string) (*FeedPage, error) {
	if viewerID == "" {
		return nil, apperr.Unauthenticated("User not authenticated")
	}
	viewer, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, apperr.Internal("Failed to resolve user", err)
	}
	if viewer == nil {
		return nil, apperr.NotFound("User not found")
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		return nil, apperr.InvalidArgument("Limit cannot exceed 50")
	}

	var startAfter *cursor.Key
	if token != "" {
		key, err := cursor.Decode(token)
		if err != nil {
			return nil, apperr.InvalidArgument("Invalid pagination token")
		}
		startAfter = &key
	}

	entries, cont, err := s.feedRepo.Page(ctx, viewerID, limit, startAfter)
	if err != nil {
		return nil, apperr.Internal("Failed to query feed", err)
	}
	if len(entries) == 0 {
		// Valid terminal state, not an error.
		return &FeedPage{Posts: []*model.Post{}}, nil
	}

	postIDs := make([]string, len(entries))
	for i, e := range entries {
		postIDs[i] = e.PostID
	}
	fetched, err := s.postRepo.BatchGet(ctx, postIDs)
	if err != nil {
		return nil, apperr.Internal("Failed to load posts", err)
	}
	byID := make(map[string]*model.Post, len(fetched))
	for i := range fetched {
		byID[fetched[i].ID] = &fetched[i]
	}

	// Keep the feed index order; entries whose post has since been
	// deleted are dropped, so a page may come back short of limit.
	posts := make([]*model.Post, 0, len(entries))
	for _, e := range entries {
		if p, ok := byID[e.PostID]; ok {
			posts = append(posts, p)
		}
	}

	authorIDs := distinctAuthorIDs(posts)
	profiles, err := s.resolveAuthors(ctx, authorIDs)
	if err != nil {
		return nil, apperr.Internal("Failed to load authors", err)
	}
	for _, p := range posts {
		// Unresolvable author leaves the field null rather than
		// failing the page.
		p.Author = profiles[p.AuthorID]
	}

	page := &FeedPage{Posts: posts, HasMore: cont != nil}
	if cont != nil {
		page.NextToken = cursor.Encode(*cont)
	}
	return page, nil
}

// resolveAuthors returns public-safe profiles for ids, consulting the
// snapshot cache first and backfilling it from the store.
func (s *feedService) resolveAuthors(ctx context.Context, ids []string) (map[string]*model.UserProfile, error) {
	profiles := make(map[string]*model.UserProfile, len(ids))
	if s.authors != nil {
		profiles = s.authors.GetProfiles(ctx, ids)
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := profiles[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return profiles, nil
	}

	users, err := s.userRepo.BatchGet(ctx, missing)
	if err != nil {
		return nil, err
	}
	loaded := make([]*model.UserProfile, 0, len(users))
	for i := range users {
		p := users[i].Profile()
		profiles[p.ID] = p
		loaded = append(loaded, p)
	}
	if s.authors != nil {
		s.authors.SetProfiles(ctx, loaded)
	}
	return profiles, nil
}

func distinctAuthorIDs(posts []*model.Post) []string {
	seen := make(map[string]struct{}, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; !ok {
			seen[p.AuthorID] = struct{}{}
			ids = append(ids, p.AuthorID)
		}
	}
	return ids
}
