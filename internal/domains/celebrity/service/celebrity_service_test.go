package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"celebstyle-backend/internal/domains/celebrity/model"
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

// ========== Mock Repository ==========

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, c *model.Celebrity) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Celebrity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Celebrity), args.Error(1)
}

func (m *mockRepo) GetBySlug(ctx context.Context, slug string) (*model.Celebrity, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Celebrity), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, filter model.ListFilter) ([]model.Celebrity, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Celebrity), args.Int(1), args.Error(2)
}

func (m *mockRepo) Update(ctx context.Context, c *model.Celebrity) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) DeleteCascade(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockRepo) CountOutfits(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *mockRepo) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) ReconcileOutfitCounts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// ========== Fixtures ==========

type fixture struct {
	repo        *mockRepo
	store       *storagetest.MockAssetStore
	jobs        *queuetest.MockEnqueuer
	celebrities *state.Container[model.Celebrity]
	svc         *celebrityService
}

func newFixture() *fixture {
	f := &fixture{
		repo:        new(mockRepo),
		store:       new(storagetest.MockAssetStore),
		jobs:        new(queuetest.MockEnqueuer),
		celebrities: state.New(func(c model.Celebrity) uuid.UUID { return c.ID }),
	}
	uploader := storage.NewUploader(f.store, storage.NewImageProcessor(0))
	f.svc = NewService(f.repo, uploader, f.jobs, f.celebrities, nil).(*celebrityService)
	f.svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return f
}

func pngFile(t *testing.T, name string) *storage.File {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return &storage.File{Name: name, Data: buf.Bytes()}
}

var ctx = context.Background()

// ========== Create ==========

func TestCreate_DerivesSlugAndStartsWithZeroOutfits(t *testing.T) {
	f := newFixture()
	f.repo.On("ExistsBySlug", ctx, "test-star", (*uuid.UUID)(nil)).Return(false, nil)
	f.repo.On("Create", ctx, mock.AnythingOfType("*model.Celebrity")).Return(nil)

	got, err := f.svc.Create(ctx, model.CreateCelebrityRequest{
		Name:      "Test Star",
		Category:  "Actor",
		StyleType: "Chic",
		Tags:      []string{"Red Carpet", "red-carpet", "Street Style"},
	}, Uploads{})

	require.NoError(t, err)
	assert.Equal(t, "test-star", got.Slug)
	assert.Equal(t, 0, got.OutfitCount)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, []string{"red-carpet", "street-style"}, got.Tags)
	assert.False(t, got.CreatedAt.IsZero())
	f.repo.AssertExpectations(t)
}

func TestCreate_DuplicateSlugIsRejected(t *testing.T) {
	f := newFixture()
	f.repo.On("ExistsBySlug", ctx, "test-star", (*uuid.UUID)(nil)).Return(true, nil)

	_, err := f.svc.Create(ctx, model.CreateCelebrityRequest{Name: "Test Star", Category: "Actor", StyleType: "Chic"}, Uploads{})

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDuplicateSlug)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_ValidationErrorsAreFieldLevel(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(ctx, model.CreateCelebrityRequest{Name: "", Category: "", StyleType: "Chic", Birthdate: "03/04/1990"}, Uploads{})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "name")
	assert.Contains(t, appErr.Fields, "category")
	assert.Contains(t, appErr.Fields, "birthdate")
	f.repo.AssertNotCalled(t, "ExistsBySlug", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_WhitespaceOnlyRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		req   model.CreateCelebrityRequest
		field string
	}{
		{"name", model.CreateCelebrityRequest{Name: "   ", Slug: "test-star", Category: "Actor", StyleType: "Chic"}, "name"},
		{"category", model.CreateCelebrityRequest{Name: "Test Star", Category: "   ", StyleType: "Chic"}, "category"},
		{"style type", model.CreateCelebrityRequest{Name: "Test Star", Category: "Actor", StyleType: "\t"}, "style_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.svc.Create(ctx, tt.req, Uploads{})

			appErr, ok := apperror.As(err)
			require.True(t, ok)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			assert.Contains(t, appErr.Fields, tt.field)
			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_UploadFailureAbortsWrite(t *testing.T) {
	f := newFixture()
	f.repo.On("ExistsBySlug", ctx, "test-star", (*uuid.UUID)(nil)).Return(false, nil)
	f.store.On("Upload", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "celebrities/test-star-")
	}), mock.Anything, "image/jpeg").Return("", errors.New("bucket unavailable"))

	_, err := f.svc.Create(ctx, model.CreateCelebrityRequest{Name: "Test Star", Category: "Actor", StyleType: "Chic"},
		Uploads{Image: pngFile(t, "star.png")})

	require.Error(t, err)
	assert.Equal(t, apperror.KindAssetUpload, apperror.KindOf(err))
	appErr, _ := apperror.As(err)
	assert.True(t, appErr.Retryable())
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_WriteFailureDiscardsUploadedAssets(t *testing.T) {
	f := newFixture()
	f.repo.On("ExistsBySlug", ctx, "test-star", (*uuid.UUID)(nil)).Return(false, nil)
	f.store.On("Upload", ctx, mock.Anything, mock.Anything, "image/jpeg").
		Return(storagetest.URLFor("celebrities/test-star-x.jpg"), nil)
	f.repo.On("Create", ctx, mock.Anything).Return(errors.New("connection reset"))
	f.store.On("DeleteKeys", mock.Anything, mock.MatchedBy(func(keys []string) bool { return len(keys) == 1 })).Return(nil)

	_, err := f.svc.Create(ctx, model.CreateCelebrityRequest{Name: "Test Star", Category: "Actor", StyleType: "Chic"},
		Uploads{Image: pngFile(t, "star.png")})

	require.Error(t, err)
	f.store.AssertCalled(t, "DeleteKeys", mock.Anything, mock.Anything)
}

func TestCreate_UploadedURLIsEmbeddedBeforeWrite(t *testing.T) {
	f := newFixture()
	url := storagetest.URLFor("celebrities/test-star-abc.jpg")
	f.repo.On("ExistsBySlug", ctx, "test-star", (*uuid.UUID)(nil)).Return(false, nil)
	f.store.On("Upload", ctx, mock.Anything, mock.Anything, "image/jpeg").Return(url, nil)
	f.repo.On("Create", ctx, mock.MatchedBy(func(c *model.Celebrity) bool {
		return c.CoverImage == url
	})).Return(nil)

	got, err := f.svc.Create(ctx, model.CreateCelebrityRequest{Name: "Test Star", Category: "Actor", StyleType: "Chic"},
		Uploads{CoverImage: pngFile(t, "cover.png")})

	require.NoError(t, err)
	assert.Equal(t, url, got.CoverImage)
}

// ========== Update ==========

func existing() *model.Celebrity {
	return &model.Celebrity{
		ID:        uuid.New(),
		Name:      "Test Star",
		Slug:      "test-star",
		Category:  "Actor",
		StyleType: "Chic",
		Image:     storagetest.URLFor("celebrities/test-star-old.jpg"),
		Signature: model.Signature{Look: "Minimal", Perfume: "No. 5"},
		SocialMedia: map[string]string{
			"instagram": "@teststar",
			"tiktok":    "@ts",
		},
	}
}

func TestUpdate_RenameRederivesSlugAndPatchesNestedFields(t *testing.T) {
	f := newFixture()
	c := existing()
	newName := "Test Star Junior"
	look := "Maximal"
	handle := "@tsj"

	f.repo.On("GetByID", ctx, c.ID).Return(c, nil)
	f.repo.On("ExistsBySlug", ctx, "test-star-junior", &c.ID).Return(false, nil)
	f.repo.On("Update", ctx, mock.Anything).Return(nil)

	got, err := f.svc.Update(ctx, c.ID, model.UpdateCelebrityRequest{
		Name:        &newName,
		Signature:   &model.SignaturePatch{Look: &look},
		SocialMedia: map[string]*string{"instagram": &handle, "tiktok": nil},
	}, Uploads{})

	require.NoError(t, err)
	assert.Equal(t, "test-star-junior", got.Slug)
	assert.Equal(t, "Maximal", got.Signature.Look)
	assert.Equal(t, "No. 5", got.Signature.Perfume)
	assert.Equal(t, map[string]string{"instagram": "@tsj"}, got.SocialMedia)
}

func TestUpdate_ExplicitSlugWinsAndIsChecked(t *testing.T) {
	f := newFixture()
	c := existing()
	slug := "taken"
	f.repo.On("GetByID", ctx, c.ID).Return(c, nil)
	f.repo.On("ExistsBySlug", ctx, "taken", &c.ID).Return(true, nil)

	_, err := f.svc.Update(ctx, c.ID, model.UpdateCelebrityRequest{Slug: &slug}, Uploads{})

	assert.ErrorIs(t, err, model.ErrDuplicateSlug)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdate_ReplacedImageIsCleanedUp(t *testing.T) {
	f := newFixture()
	c := existing()
	newURL := storagetest.URLFor("celebrities/test-star-new.jpg")

	f.repo.On("GetByID", ctx, c.ID).Return(c, nil)
	f.store.On("Upload", ctx, mock.Anything, mock.Anything, "image/jpeg").Return(newURL, nil)
	f.repo.On("Update", ctx, mock.Anything).Return(nil)
	f.jobs.On("DeleteAssetKeys", ctx, []string{"celebrities/test-star-old.jpg"}, "celebrity image replaced").Return(nil)

	got, err := f.svc.Update(ctx, c.ID, model.UpdateCelebrityRequest{}, Uploads{Image: pngFile(t, "new.png")})

	require.NoError(t, err)
	assert.Equal(t, newURL, got.Image)
	f.jobs.AssertExpectations(t)
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.repo.On("GetByID", ctx, id).Return(nil, model.ErrCelebrityNotFound)

	_, err := f.svc.Update(ctx, id, model.UpdateCelebrityRequest{}, Uploads{})
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdate_WhitespaceOnlyNameIsRejected(t *testing.T) {
	f := newFixture()
	blank := "  "

	_, err := f.svc.Update(ctx, uuid.New(), model.UpdateCelebrityRequest{Name: &blank}, Uploads{})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "name")
	f.repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

// ========== Delete ==========

func TestDelete(t *testing.T) {
	tests := []struct {
		name        string
		outfitCount int
		cascade     bool
		setup       func(f *fixture, c *model.Celebrity)
		wantErr     error
	}{
		{
			name:        "no outfits deletes",
			outfitCount: 0,
			setup: func(f *fixture, c *model.Celebrity) {
				f.repo.On("Delete", ctx, c.ID).Return(nil)
			},
		},
		{
			name:        "outfits without cascade refused",
			outfitCount: 2,
			wantErr:     model.ErrCelebrityHasOutfits,
		},
		{
			name:        "outfits with cascade removes outfits and their assets",
			outfitCount: 2,
			cascade:     true,
			setup: func(f *fixture, c *model.Celebrity) {
				o1, o2 := uuid.New(), uuid.New()
				f.repo.On("DeleteCascade", ctx, c.ID).Return([]uuid.UUID{o1, o2}, nil)
				f.jobs.On("DeleteAssetPrefix", ctx, storage.CelebrityOutfitsPrefix(c.ID), mock.Anything).Return(nil).Once()
				f.jobs.On("DeleteAssetPrefix", ctx, storage.ProductsPrefix(o1), mock.Anything).Return(nil).Once()
				f.jobs.On("DeleteAssetPrefix", ctx, storage.ProductsPrefix(o2), mock.Anything).Return(nil).Once()
			},
		},
		{
			name:        "race with new outfit surfaces FK refusal",
			outfitCount: 0,
			setup: func(f *fixture, c *model.Celebrity) {
				f.repo.On("Delete", ctx, c.ID).Return(model.ErrCelebrityHasOutfits)
			},
			wantErr: model.ErrCelebrityHasOutfits,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			c := existing()
			require.NoError(t, f.celebrities.FetchAll(ctx, func(context.Context) ([]model.Celebrity, error) {
				return []model.Celebrity{*c}, nil
			}))

			f.repo.On("GetByID", ctx, c.ID).Return(c, nil)
			f.repo.On("CountOutfits", ctx, c.ID).Return(tt.outfitCount, nil)
			f.jobs.On("DeleteAssetKeys", ctx, []string{"celebrities/test-star-old.jpg"}, "celebrity deleted").Return(nil).Maybe()
			if tt.setup != nil {
				tt.setup(f, c)
			}

			err := f.svc.Delete(ctx, c.ID, tt.cascade)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, f.celebrities.Snapshot().Items, 1, "failed delete keeps the entity in the list")
				f.repo.AssertNotCalled(t, "DeleteCascade", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, f.celebrities.Snapshot().Items, "deleted entity is removed without refetch")
			f.repo.AssertExpectations(t)
			f.jobs.AssertExpectations(t)
		})
	}
}

// ========== List ==========

func TestList_ClampsLimitAndNormalizesTag(t *testing.T) {
	f := newFixture()
	f.repo.On("List", ctx, model.ListFilter{Tag: "red-carpet", Limit: maxLimit, Search: "zen"}).
		Return([]model.Celebrity{}, 0, nil)

	_, _, err := f.svc.List(ctx, model.ListFilter{Tag: "Red Carpet", Limit: 500, Search: "  zen ", Offset: -5})
	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}

func TestGetBySlug_InvalidSlugIsNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.GetBySlug(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, model.ErrCelebrityNotFound)
	f.repo.AssertNotCalled(t, "GetBySlug", mock.Anything, mock.Anything)
}
