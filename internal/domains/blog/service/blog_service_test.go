package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"celebstyle-backend/internal/domains/blog/model"
	"celebstyle-backend/internal/infrastructure/queue/queuetest"
	"celebstyle-backend/internal/infrastructure/storage"
	"celebstyle-backend/internal/infrastructure/storage/storagetest"
	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/internal/state"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, p *model.Post) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *mockRepo) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, filter model.ListFilter) ([]model.Summary, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Summary), args.Int(1), args.Error(2)
}

func (m *mockRepo) Update(ctx context.Context, p *model.Post) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) Topics(ctx context.Context) ([]model.Topic, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Topic), args.Error(1)
}

type fixture struct {
	repo  *mockRepo
	store *storagetest.MockAssetStore
	jobs  *queuetest.MockEnqueuer
	posts *state.Container[model.Summary]
	svc   *blogService
}

var ctx = context.Background()

var fixedNow = time.Date(2026, 5, 17, 9, 30, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		repo:  new(mockRepo),
		store: new(storagetest.MockAssetStore),
		jobs:  new(queuetest.MockEnqueuer),
		posts: state.New(func(s model.Summary) uuid.UUID { return s.ID }),
	}
	uploader := storage.NewUploader(f.store, storage.NewImageProcessor(0))
	f.svc = NewService(f.repo, uploader, f.jobs, f.posts).(*blogService)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func coverFile(t *testing.T) *storage.File {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return &storage.File{Name: "cover.png", Data: buf.Bytes()}
}

// ========== Create ==========

func TestCreate_AppliesSEODefaults(t *testing.T) {
	f := newFixture()
	f.repo.On("ExistsBySlug", ctx, "zendayas-met-gala-looks-ranked", (*uuid.UUID)(nil)).Return(false, nil)
	f.repo.On("Create", ctx, mock.AnythingOfType("*model.Post")).Return(nil)

	p, err := f.svc.Create(ctx, model.CreatePostRequest{
		Title:    "Zendaya's Met Gala Looks, Ranked",
		Content:  "<p>Every <b>Met Gala</b> look from the star, ranked from good to iconic.</p>",
		Category: "Red Carpet",
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "zendayas-met-gala-looks-ranked", p.Slug)
	assert.Equal(t, "red-carpet", p.CategorySlug)
	assert.Equal(t, model.DefaultAuthor, p.Author)
	assert.Equal(t, "Every Met Gala look from the star, ranked from good to iconic.", p.MetaDescription)
	assert.Equal(t, []string{"red-carpet", "zendayas", "met", "gala", "looks", "ranked"}, p.Keywords)
	require.NotNil(t, p.Date)
	assert.Equal(t, "2026-05-17", p.Date.Format(model.DateLayout))
}

func TestCreate_CoverUploadedUnderBlogCovers(t *testing.T) {
	f := newFixture()
	f.repo.On("ExistsBySlug", ctx, "spring-trends", (*uuid.UUID)(nil)).Return(false, nil)
	f.store.On("Upload", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "blog-covers/spring-trends-")
	}), mock.Anything, "image/jpeg").Return(storagetest.URLFor("blog-covers/spring-trends.jpg"), nil)
	f.repo.On("Create", ctx, mock.Anything).Return(nil)

	p, err := f.svc.Create(ctx, model.CreatePostRequest{
		Title: "Spring Trends", Content: "c", Category: "Trends",
	}, coverFile(t))

	require.NoError(t, err)
	assert.Equal(t, storagetest.URLFor("blog-covers/spring-trends.jpg"), p.CoverImage)
}

func TestCreate_DuplicateSlugIsConflict(t *testing.T) {
	f := newFixture()
	f.repo.On("ExistsBySlug", ctx, "spring-trends", (*uuid.UUID)(nil)).Return(true, nil)

	_, err := f.svc.Create(ctx, model.CreatePostRequest{Title: "Spring Trends", Content: "c", Category: "Trends"}, nil)

	assert.True(t, errors.Is(err, model.ErrDuplicateSlug))
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestCreate_StructuredDataMustBeObject(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(ctx, model.CreatePostRequest{
		Title: "T", Content: "c", Category: "News",
		StructuredData: json.RawMessage(`["not","an","object"]`),
	}, nil)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "structured_data")
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   model.CreatePostRequest
		field string
	}{
		{"missing title", model.CreatePostRequest{Content: "c", Category: "News"}, "title"},
		{"whitespace title", model.CreatePostRequest{Title: "   ", Slug: "news", Content: "c", Category: "News"}, "title"},
		{"whitespace content", model.CreatePostRequest{Title: "T", Content: "\n\t ", Category: "News"}, "content"},
		{"whitespace category", model.CreatePostRequest{Title: "T", Content: "c", Category: "  "}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.svc.Create(ctx, tt.req, nil)

			appErr, ok := apperror.As(err)
			require.True(t, ok)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			assert.Contains(t, appErr.Fields, tt.field)
			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdate_WhitespaceOnlyContentIsRejected(t *testing.T) {
	f := newFixture()
	blank := " \t"

	_, err := f.svc.Update(ctx, uuid.New(), model.UpdatePostRequest{Content: &blank}, nil)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "content")
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// ========== Update ==========

func TestUpdate_TitleChangeRederivesSlugAndKeepsExplicitMeta(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	existing := &model.Post{
		ID: id, Title: "Old", Slug: "old", Content: "body", Category: "News", CategorySlug: "news",
		MetaDescription: "Hand written", Keywords: []string{"news"}, Author: "Ana",
	}
	title := "Brand New Title"

	f.repo.On("GetByID", ctx, id).Return(existing, nil)
	f.repo.On("ExistsBySlug", ctx, "brand-new-title", &id).Return(false, nil)
	f.repo.On("Update", ctx, mock.Anything).Return(nil)

	p, err := f.svc.Update(ctx, id, model.UpdatePostRequest{Title: &title}, nil)

	require.NoError(t, err)
	assert.Equal(t, "brand-new-title", p.Slug)
	assert.Equal(t, "Hand written", p.MetaDescription)
	assert.Equal(t, fixedNow, p.UpdatedAt)
}

func TestUpdate_NewCoverCleansOldOne(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	oldKey := "blog-covers/old-1.jpg"
	existing := &model.Post{ID: id, Title: "T", Slug: "t", Content: "c", Category: "News", CoverImage: storagetest.URLFor(oldKey)}

	f.repo.On("GetByID", ctx, id).Return(existing, nil)
	f.store.On("Upload", ctx, mock.Anything, mock.Anything, "image/jpeg").Return(storagetest.URLFor("blog-covers/new.jpg"), nil)
	f.repo.On("Update", ctx, mock.Anything).Return(nil)
	f.jobs.On("DeleteAssetKeys", ctx, []string{oldKey}, "blog cover replaced").Return(nil)

	_, err := f.svc.Update(ctx, id, model.UpdatePostRequest{}, coverFile(t))

	require.NoError(t, err)
	f.jobs.AssertExpectations(t)
}

// ========== Delete ==========

func TestDelete_RemovesFromContainer(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	require.NoError(t, f.posts.FetchAll(ctx, func(context.Context) ([]model.Summary, error) {
		return []model.Summary{{ID: id}, {ID: uuid.New()}}, nil
	}))
	f.repo.On("GetByID", ctx, id).Return(&model.Post{ID: id}, nil)
	f.repo.On("Delete", ctx, id).Return(nil)

	require.NoError(t, f.svc.Delete(ctx, id))
	assert.Len(t, f.posts.Snapshot().Items, 1)
}

// ========== Topics ==========

func TestTopic(t *testing.T) {
	f := newFixture()
	f.repo.On("Topics", ctx).Return([]model.Topic{{Name: "Red Carpet", Slug: "red-carpet", Count: 3}}, nil)

	topic, err := f.svc.Topic(ctx, "Red Carpet")
	require.NoError(t, err)
	assert.Equal(t, 3, topic.Count)

	_, err = f.svc.Topic(ctx, "street-style")
	assert.True(t, errors.Is(err, model.ErrTopicNotFound))
}

func TestList_NormalizesTopic(t *testing.T) {
	f := newFixture()
	f.repo.On("List", ctx, model.ListFilter{Topic: "red-carpet", Limit: defaultLimit}).Return([]model.Summary{}, 0, nil)

	_, _, err := f.svc.List(ctx, model.ListFilter{Topic: "Red Carpet"})

	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}
