package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/newsfeed/internal/apperr"
	"github.com/d60-Lab/newsfeed/internal/cursor"
	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/repository"
	"github.com/d60-Lab/newsfeed/internal/validate"
)

// PostPage is one page of an author timeline.
type PostPage struct {
	Posts     []*model.Post
	NextToken string
	HasMore   bool
}

// CommentPage is one page of a post's comments.
type CommentPage struct {
	Comments  []*model.Comment
	NextToken string
	HasMore   bool
}

type PostService interface {
	Create(ctx context.Context, authorID, content, imageURL string) (*model.Post, error)
	Get(ctx context.Context, id string) (*model.Post, error)
	Delete(ctx context.Context, id, requesterID string) error
	ListByAuthor(ctx context.Context, authorID string, limit int, token string) (*PostPage, error)
	Like(ctx context.Context, postID, userID string) error
	Unlike(ctx context.Context, postID, userID string) error
	Comment(ctx context.Context, postID, userID, content string) (*model.Comment, error)
	ListComments(ctx context.Context, postID string, limit int, token string) (*CommentPage, error)
}

type postService struct {
	postRepo    repository.PostRepository
	feedRepo    repository.FeedRepository
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
	outboxRepo  repository.OutboxRepository
	userRepo    repository.UserRepository
}

func NewPostService(postRepo repository.PostRepository, feedRepo repository.FeedRepository, likeRepo repository.LikeRepository, commentRepo repository.CommentRepository, outboxRepo repository.OutboxRepository, userRepo repository.UserRepository) PostService {
	return &postService{
		postRepo:    postRepo,
		feedRepo:    feedRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		outboxRepo:  outboxRepo,
		userRepo:    userRepo,
	}
}

func (s *postService) Create(ctx context.Context, authorID, content, imageURL string) (*model.Post, error) {
	if authorID == "" {
		return nil, apperr.Unauthenticated("User not authenticated")
	}
	if content == "" {
		return nil, apperr.InvalidArgument("Content is required")
	}
	if !validate.PostContent(content) {
		return nil, apperr.InvalidArgument("Content must be between 1 and 500 characters")
	}

	now := time.Now()
	post := &model.Post{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Content:   validate.Sanitize(content),
		ImageURL:  imageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.postRepo.CreateWithOutbox(ctx, post); err != nil {
		return nil, apperr.Internal("Failed to create post", err)
	}
	return post, nil
}

func (s *postService) Get(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Failed to load post", err)
	}
	if post == nil {
		return nil, apperr.NotFound("Post not found")
	}
	if author, err := s.userRepo.GetByID(ctx, post.AuthorID); err == nil && author != nil {
		post.Author = author.Profile()
	}
	return post, nil
}

// Delete removes the post and every derived row (feed entries, likes,
// comments, outbox). Each delete is an independent single-record write;
// a failure stops the sequence and surfaces as Internal.
func (s *postService) Delete(ctx context.Context, id, requesterID string) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return apperr.Internal("Failed to load post", err)
	}
	if post == nil {
		return apperr.NotFound("Post not found")
	}
	if post.AuthorID != requesterID {
		return apperr.InvalidArgument("Cannot delete another user's post")
	}

	if _, err := s.postRepo.Delete(ctx, id); err != nil {
		return apperr.Internal("Failed to delete post", err)
	}
	if _, err := s.feedRepo.DeleteByPost(ctx, id); err != nil {
		return apperr.Internal("Failed to delete feed entries", err)
	}
	if _, err := s.likeRepo.DeleteByPost(ctx, id); err != nil {
		return apperr.Internal("Failed to delete likes", err)
	}
	if _, err := s.commentRepo.DeleteByPost(ctx, id); err != nil {
		return apperr.Internal("Failed to delete comments", err)
	}
	if _, err := s.outboxRepo.DeleteByPost(ctx, id); err != nil {
		return apperr.Internal("Failed to delete outbox event", err)
	}
	return nil
}

func (s *postService) ListByAuthor(ctx context.Context, authorID string, limit int, token string) (*PostPage, error) {
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

	posts, cont, err := s.postRepo.PageByAuthor(ctx, authorID, limit, startAfter)
	if err != nil {
		return nil, apperr.Internal("Failed to query posts", err)
	}
	out := &PostPage{Posts: make([]*model.Post, len(posts)), HasMore: cont != nil}
	for i := range posts {
		out.Posts[i] = &posts[i]
	}
	if cont != nil {
		out.NextToken = cursor.Encode(*cont)
	}
	return out, nil
}

func (s *postService) Like(ctx context.Context, postID, userID string) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return apperr.Internal("Failed to load post", err)
	}
	if post == nil {
		return apperr.NotFound("Post not found")
	}
	created, err := s.likeRepo.Create(ctx, postID, userID)
	if err != nil {
		return apperr.Internal("Failed to create like", err)
	}
	if !created {
		return apperr.AlreadyExists("Already liked this post")
	}
	if err := s.postRepo.AddLikes(ctx, postID, 1); err != nil {
		return apperr.Internal("Failed to update like count", err)
	}
	return nil
}

func (s *postService) Unlike(ctx context.Context, postID, userID string) error {
	rows, err := s.likeRepo.Delete(ctx, postID, userID)
	if err != nil {
		return apperr.Internal("Failed to delete like", err)
	}
	if rows == 0 {
		return apperr.NotFound("Like not found")
	}
	if err := s.postRepo.AddLikes(ctx, postID, -1); err != nil {
		return apperr.Internal("Failed to update like count", err)
	}
	return nil
}

func (s *postService) Comment(ctx context.Context, postID, userID, content string) (*model.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, apperr.Internal("Failed to load post", err)
	}
	if post == nil {
		return nil, apperr.NotFound("Post not found")
	}
	if !validate.CommentContent(content) {
		return nil, apperr.InvalidArgument("Content must be between 1 and 200 characters")
	}

	now := time.Now()
	comment := &model.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		UserID:    userID,
		Content:   validate.Sanitize(content),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, apperr.Internal("Failed to create comment", err)
	}
	if err := s.postRepo.AddComments(ctx, postID, 1); err != nil {
		return nil, apperr.Internal("Failed to update comment count", err)
	}
	return comment, nil
}

func (s *postService) ListComments(ctx context.Context, postID string, limit int, token string) (*CommentPage, error) {
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

	comments, cont, err := s.commentRepo.PageByPost(ctx, postID, limit, startAfter)
	if err != nil {
		return nil, apperr.Internal("Failed to query comments", err)
	}
	out := &CommentPage{Comments: make([]*model.Comment, len(comments)), HasMore: cont != nil}
	for i := range comments {
		out.Comments[i] = &comments[i]
	}
	if cont != nil {
		out.NextToken = cursor.Encode(*cont)
	}
	return out, nil
}
