package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Miguel-EMC/clinic-api/internal/models"
	"github.com/Miguel-EMC/clinic-api/internal/repository"
)

// compile-time check that the mock satisfies the contract
var _ repository.PostRepository = (*mockPostRepo)(nil)

// mockPostRepo is a func-field mock over an in-memory map.
type mockPostRepo struct {
	posts map[string]*models.Post

	UpdateFunc func(ctx context.Context, post *models.Post) error
}

func newMockPostRepo(seed ...*models.Post) *mockPostRepo {
	m := &mockPostRepo{posts: make(map[string]*models.Post)}
	for _, p := range seed {
		cp := *p
		m.posts[p.ID] = &cp
	}
	return m
}

func (m *mockPostRepo) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = "generated-id"
	}
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *mockPostRepo) ByID(ctx context.Context, id string) (*models.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPostRepo) List(ctx context.Context, f repository.PostFilter) ([]models.Post, error) {
	out := make([]models.Post, 0)
	for _, p := range m.posts {
		if f.AuthorID != "" {
			if p.AuthorID != f.AuthorID {
				continue
			}
			if !f.IncludeDrafts && !p.Published {
				continue
			}
		} else if !p.Published {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockPostRepo) Update(ctx context.Context, post *models.Post) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, post)
	}
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *mockPostRepo) Delete(ctx context.Context, id string) error {
	delete(m.posts, id)
	return nil
}

func (m *mockPostRepo) ReplaceCategories(ctx context.Context, post *models.Post, categoryIDs []string) error {
	return nil
}

// fakeEnricher satisfies ContentEnricher without network calls.
type fakeEnricher struct {
	summarizeErr error
	imageErr     error
}

func (f *fakeEnricher) Summarize(ctx context.Context, text string) (string, error) {
	if f.summarizeErr != nil {
		return "", f.summarizeErr
	}
	return "summary of: " + text, nil
}

func (f *fakeEnricher) GenerateCoverImage(ctx context.Context, title string) (string, error) {
	if f.imageErr != nil {
		return "", f.imageErr
	}
	return "https://img.example.com/" + title + ".png", nil
}

func draft(id, author string) *models.Post {
	return &models.Post{ID: id, AuthorID: author, Title: "t", Content: "body"}
}

func TestPublish(t *testing.T) {
	repo := newMockPostRepo(draft("p1", "alice"))
	svc := NewPostService(repo, &fakeEnricher{})

	post, err := svc.Publish(context.Background(), "p1", "alice")
	require.NoError(t, err)

	assert.True(t, post.Published)
	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, "summary of: body", post.Summary)
	assert.Equal(t, "https://img.example.com/t.png", post.CoverImageURL)

	// persisted
	stored, _ := repo.ByID(context.Background(), "p1")
	assert.True(t, stored.Published)
}

func TestPublishAlreadyPublished(t *testing.T) {
	p := draft("p1", "alice")
	p.Published = true
	svc := NewPostService(newMockPostRepo(p), &fakeEnricher{})

	_, err := svc.Publish(context.Background(), "p1", "alice")
	assert.ErrorIs(t, err, ErrAlreadyPublished)
}

func TestPublishNotAuthor(t *testing.T) {
	svc := NewPostService(newMockPostRepo(draft("p1", "alice")), &fakeEnricher{})

	_, err := svc.Publish(context.Background(), "p1", "bob")
	assert.ErrorIs(t, err, ErrNotAuthor)
}

func TestPublishMissingPost(t *testing.T) {
	svc := NewPostService(newMockPostRepo(), &fakeEnricher{})

	_, err := svc.Publish(context.Background(), "nope", "alice")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPublishUpstreamFailureKeepsDraft(t *testing.T) {
	repo := newMockPostRepo(draft("p1", "alice"))
	svc := NewPostService(repo, &fakeEnricher{summarizeErr: ErrUpstream})

	_, err := svc.Publish(context.Background(), "p1", "alice")
	assert.ErrorIs(t, err, ErrUpstream)

	stored, _ := repo.ByID(context.Background(), "p1")
	assert.False(t, stored.Published)
	assert.Empty(t, stored.Summary)
}

func TestPublishImageFailureKeepsDraft(t *testing.T) {
	repo := newMockPostRepo(draft("p1", "alice"))
	svc := NewPostService(repo, &fakeEnricher{imageErr: ErrUpstream})

	_, err := svc.Publish(context.Background(), "p1", "alice")
	assert.ErrorIs(t, err, ErrUpstream)

	stored, _ := repo.ByID(context.Background(), "p1")
	assert.False(t, stored.Published)
}

func TestPublishPersistFailure(t *testing.T) {
	repo := newMockPostRepo(draft("p1", "alice"))
	dbErr := errors.New("db down")
	repo.UpdateFunc = func(ctx context.Context, post *models.Post) error { return dbErr }
	svc := NewPostService(repo, &fakeEnricher{})

	_, err := svc.Publish(context.Background(), "p1", "alice")
	assert.ErrorIs(t, err, dbErr)
}

func TestGetHidesDraftsFromOthers(t *testing.T) {
	svc := NewPostService(newMockPostRepo(draft("p1", "alice")), &fakeEnricher{})

	// author sees their own draft
	post, err := svc.Get(context.Background(), "p1", "alice")
	require.NoError(t, err)
	assert.Equal(t, "p1", post.ID)

	// everyone else gets a 404-shaped error
	_, err = svc.Get(context.Background(), "p1", "bob")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = svc.Get(context.Background(), "p1", "")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestGetPublishedVisibleToAnyone(t *testing.T) {
	p := draft("p1", "alice")
	p.Published = true
	svc := NewPostService(newMockPostRepo(p), &fakeEnricher{})

	post, err := svc.Get(context.Background(), "p1", "")
	require.NoError(t, err)
	assert.True(t, post.Published)
}

func TestCreateAndUpdate(t *testing.T) {
	repo := newMockPostRepo()
	svc := NewPostService(repo, &fakeEnricher{})

	post, err := svc.Create(context.Background(), "alice", PostInput{Title: "hello", Content: "world"})
	require.NoError(t, err)
	assert.Equal(t, "alice", post.AuthorID)

	updated, err := svc.Update(context.Background(), post.ID, "alice", PostInput{Title: "hello 2"})
	require.NoError(t, err)
	assert.Equal(t, "hello 2", updated.Title)
	assert.Equal(t, "world", updated.Content)

	// non-author cannot update
	_, err = svc.Update(context.Background(), post.ID, "bob", PostInput{Title: "hijack"})
	assert.ErrorIs(t, err, ErrNotAuthor)
}

func TestDeleteOwnership(t *testing.T) {
	repo := newMockPostRepo(draft("p1", "alice"))
	svc := NewPostService(repo, &fakeEnricher{})

	assert.ErrorIs(t, svc.Delete(context.Background(), "p1", "bob"), ErrNotAuthor)
	require.NoError(t, svc.Delete(context.Background(), "p1", "alice"))

	_, err := svc.Get(context.Background(), "p1", "alice")
	assert.ErrorIs(t, err, ErrPostNotFound)
}
