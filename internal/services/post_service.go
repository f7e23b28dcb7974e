package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Miguel-EMC/clinic-api/internal/models"
	"github.com/Miguel-EMC/clinic-api/internal/repository"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrNotAuthor        = errors.New("not the author of this post")
	ErrAlreadyPublished = errors.New("post already published")
)

// ContentEnricher is the slice of ContentClient the publish pipeline needs.
type ContentEnricher interface {
	Summarize(ctx context.Context, text string) (string, error)
	GenerateCoverImage(ctx context.Context, title string) (string, error)
}

// PostService owns the blog workflows that go beyond plain CRUD, most notably
// the publish pipeline: summarize, illustrate, then flip the draft flag.
type PostService struct {
	posts   repository.PostRepository
	content ContentEnricher
}

func NewPostService(posts repository.PostRepository, content ContentEnricher) *PostService {
	return &PostService{posts: posts, content: content}
}

type PostInput struct {
	Title       string
	Content     string
	CategoryIDs []string
}

func (s *PostService) Create(ctx context.Context, authorID string, in PostInput) (*models.Post, error) {
	post := &models.Post{
		AuthorID: authorID,
		Title:    in.Title,
		Content:  in.Content,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	if len(in.CategoryIDs) > 0 {
		if err := s.posts.ReplaceCategories(ctx, post, in.CategoryIDs); err != nil {
			return nil, err
		}
	}
	return s.posts.ByID(ctx, post.ID)
}

func (s *PostService) List(ctx context.Context, f repository.PostFilter) ([]models.Post, error) {
	return s.posts.List(ctx, f)
}

// Get returns a post; drafts are visible only to their author.
func (s *PostService) Get(ctx context.Context, id, requesterID string) (*models.Post, error) {
	post, err := s.posts.ByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	if !post.Published && post.AuthorID != requesterID {
		// hide drafts from everyone else, same response as a missing post
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, id, requesterID string, in PostInput) (*models.Post, error) {
	post, err := s.authorOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Content != "" {
		post.Content = in.Content
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	if in.CategoryIDs != nil {
		if err := s.posts.ReplaceCategories(ctx, post, in.CategoryIDs); err != nil {
			return nil, err
		}
	}
	return s.posts.ByID(ctx, id)
}

func (s *PostService) Delete(ctx context.Context, id, requesterID string) error {
	if _, err := s.authorOwned(ctx, id, requesterID); err != nil {
		return err
	}
	return s.posts.Delete(ctx, id)
}

// Publish runs the sequential enrichment chain and marks the post published.
// An upstream failure leaves the post untouched as a draft.
func (s *PostService) Publish(ctx context.Context, id, requesterID string) (*models.Post, error) {
	post, err := s.authorOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	if post.Published {
		return nil, ErrAlreadyPublished
	}

	summary, err := s.content.Summarize(ctx, post.Content)
	if err != nil {
		return nil, err
	}
	imageURL, err := s.content.GenerateCoverImage(ctx, post.Title)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post.Summary = summary
	post.CoverImageURL = imageURL
	post.Published = true
	post.PublishedAt = &now

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) authorOwned(ctx context.Context, id, requesterID string) (*models.Post, error) {
	post, err := s.posts.ByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	if post.AuthorID != requesterID {
		return nil, ErrNotAuthor
	}
	return post, nil
}
