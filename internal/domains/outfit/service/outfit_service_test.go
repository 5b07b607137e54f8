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

	celebrityModel "celebstyle-backend/internal/domains/celebrity/model"
	"celebstyle-backend/internal/domains/outfit/model"
	"celebstyle-backend/internal/infrastructure/queue/queuetest"
	"celebstyle-backend/internal/infrastructure/storage"
	"celebstyle-backend/internal/infrastructure/storage/storagetest"
	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/internal/state"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ========== Mocks ==========

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, o *model.Outfit) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Outfit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Outfit), args.Error(1)
}

func (m *mockRepo) GetBySlug(ctx context.Context, slug string) (*model.Outfit, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Outfit), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, filter model.ListFilter) ([]model.Outfit, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Outfit), args.Int(1), args.Error(2)
}

func (m *mockRepo) Update(ctx context.Context, o *model.Outfit) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

type mockCelebrities struct {
	mock.Mock
}

func (m *mockCelebrities) GetByID(ctx context.Context, id uuid.UUID) (*celebrityModel.Celebrity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*celebrityModel.Celebrity), args.Error(1)
}

// ========== Fixtures ==========

type fixture struct {
	repo        *mockRepo
	celebrities *mockCelebrities
	store       *storagetest.MockAssetStore
	jobs        *queuetest.MockEnqueuer
	outfits     *state.Container[model.Outfit]
	svc         *outfitService
}

func newFixture() *fixture {
	f := &fixture{
		repo:        new(mockRepo),
		celebrities: new(mockCelebrities),
		store:       new(storagetest.MockAssetStore),
		jobs:        new(queuetest.MockEnqueuer),
		outfits:     state.New(func(o model.Outfit) uuid.UUID { return o.ID }),
	}
	uploader := storage.NewUploader(f.store, storage.NewImageProcessor(0))
	f.svc = NewService(f.repo, f.celebrities, uploader, f.jobs, f.outfits).(*outfitService)
	f.svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return f
}

func pngFile(t *testing.T, name string) storage.File {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return storage.File{Name: name, Data: buf.Bytes()}
}

var ctx = context.Background()

func star() *celebrityModel.Celebrity {
	return &celebrityModel.Celebrity{ID: uuid.New(), Name: "Test Star", Slug: "test-star"}
}

// ========== Create ==========

func TestCreate_GalleryUploadsUseOutfitFolderAndPrimaryImage(t *testing.T) {
	f := newFixture()
	c := star()
	first := storagetest.URLFor("outfits/a/b/test-star-1.jpg")
	second := storagetest.URLFor("outfits/a/b/test-star-2.jpg")
	price := decimal.RequireFromString("1250.50")

	f.celebrities.On("GetByID", ctx, c.ID).Return(c, nil)
	f.repo.On("ExistsBySlug", ctx, "met-gala-2024", (*uuid.UUID)(nil)).Return(false, nil)
	f.store.On("Upload", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "outfits/"+c.ID.String()+"/") && strings.Contains(key, "/test-star-")
	}), mock.Anything, "image/jpeg").Return(first, nil).Once()
	f.store.On("Upload", ctx, mock.Anything, mock.Anything, "image/jpeg").Return(second, nil).Once()
	f.repo.On("Create", ctx, mock.MatchedBy(func(o *model.Outfit) bool {
		return o.Image == first && len(o.Images) == 2
	})).Return(nil)
	f.jobs.On("GenerateThumbnails", ctx, mock.AnythingOfType("uuid.UUID"), mock.MatchedBy(func(keys []string) bool {
		return len(keys) == 2
	})).Return(nil)

	got, err := f.svc.Create(ctx, model.CreateOutfitRequest{
		CelebrityID: c.ID.String(),
		Title:       "Met Gala 2024",
		Price:       &price,
		Sections:    []model.Section{{Title: " Who designed it? ", Content: "<p>Atelier</p>"}},
	}, Uploads{Images: []storage.File{pngFile(t, "a.png"), pngFile(t, "b.png")}})

	require.NoError(t, err)
	assert.Equal(t, "met-gala-2024", got.Slug)
	assert.Equal(t, []string{first, second}, got.Images)
	assert.Equal(t, first, got.Image)
	assert.Equal(t, "Who designed it?", got.Sections[0].Title)
	assert.Equal(t, "Test Star", got.CelebrityName)
	f.repo.AssertExpectations(t)
	f.jobs.AssertExpectations(t)
}

func TestCreate_UnknownCelebrityIsReferential(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.celebrities.On("GetByID", ctx, id).Return(nil, celebrityModel.ErrCelebrityNotFound)

	_, err := f.svc.Create(ctx, model.CreateOutfitRequest{CelebrityID: id.String(), Title: "Look"}, Uploads{})

	assert.ErrorIs(t, err, model.ErrUnknownCelebrity)
	assert.Equal(t, apperror.KindReferential, apperror.KindOf(err))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_Validation(t *testing.T) {
	negative := decimal.NewFromInt(-1)
	tests := []struct {
		name  string
		req   model.CreateOutfitRequest
		field string
	}{
		{"missing celebrity", model.CreateOutfitRequest{Title: "Look"}, "celebrity_id"},
		{"malformed celebrity", model.CreateOutfitRequest{CelebrityID: "abc", Title: "Look"}, "celebrity_id"},
		{"missing title", model.CreateOutfitRequest{CelebrityID: uuid.NewString()}, "title"},
		{"whitespace title", model.CreateOutfitRequest{CelebrityID: uuid.NewString(), Title: "    ", Slug: "look"}, "title"},
		{"negative price", model.CreateOutfitRequest{CelebrityID: uuid.NewString(), Title: "Look", Price: &negative}, "price"},
		{"bad date", model.CreateOutfitRequest{CelebrityID: uuid.NewString(), Title: "Look", Date: "May 6"}, "date"},
		{"section without title", model.CreateOutfitRequest{CelebrityID: uuid.NewString(), Title: "Look",
			Sections: []model.Section{{Content: "x"}}}, "sections.0.title"},
		{"section with whitespace title", model.CreateOutfitRequest{CelebrityID: uuid.NewString(), Title: "Look",
			Sections: []model.Section{{Title: " \n ", Content: "x"}}}, "sections.0.title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.Create(ctx, tt.req, Uploads{})

			appErr, ok := apperror.As(err)
			require.True(t, ok)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			assert.Contains(t, appErr.Fields, tt.field)
		})
	}
}

func TestCreate_WriteFailureDiscardsUploads(t *testing.T) {
	f := newFixture()
	c := star()
	f.celebrities.On("GetByID", ctx, c.ID).Return(c, nil)
	f.repo.On("ExistsBySlug", ctx, "look", (*uuid.UUID)(nil)).Return(false, nil)
	f.store.On("Upload", ctx, mock.Anything, mock.Anything, "image/jpeg").Return(storagetest.URLFor("outfits/x.jpg"), nil)
	f.repo.On("Create", ctx, mock.Anything).Return(model.ErrUnknownCelebrity)
	f.store.On("DeleteKeys", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Create(ctx, model.CreateOutfitRequest{CelebrityID: c.ID.String(), Title: "Look"},
		Uploads{Images: []storage.File{pngFile(t, "a.png")}})

	assert.ErrorIs(t, err, model.ErrUnknownCelebrity)
	f.store.AssertCalled(t, "DeleteKeys", mock.Anything, mock.Anything)
	f.jobs.AssertNotCalled(t, "GenerateThumbnails", mock.Anything, mock.Anything, mock.Anything)
}

// ========== Update ==========

func existing(c *celebrityModel.Celebrity) *model.Outfit {
	id := uuid.New()
	images := []string{
		storagetest.URLFor(storage.OutfitPrefix(c.ID, id) + "test-star-1.jpg"),
		storagetest.URLFor(storage.OutfitPrefix(c.ID, id) + "test-star-2.jpg"),
	}
	return &model.Outfit{
		ID:            id,
		CelebrityID:   c.ID,
		CelebritySlug: c.Slug,
		Title:         "Gala Look",
		Slug:          "gala-look",
		Image:         images[0],
		Images:        images,
	}
}

func TestUpdate_ReorderAndRemoveImages(t *testing.T) {
	f := newFixture()
	c := star()
	o := existing(c)
	removed, kept := o.Images[0], o.Images[1]

	f.repo.On("GetByID", ctx, o.ID).Return(o, nil)
	f.repo.On("Update", ctx, mock.Anything).Return(nil)
	f.jobs.On("DeleteAssetKeys", ctx, []string{strings.TrimPrefix(removed, storagetest.BaseURL+"/")}, "outfit image removed").Return(nil)

	got, err := f.svc.Update(ctx, o.ID, model.UpdateOutfitRequest{Images: &[]string{kept}}, Uploads{})

	require.NoError(t, err)
	assert.Equal(t, []string{kept}, got.Images)
	assert.Equal(t, kept, got.Image, "primary image follows images[0]")
	f.jobs.AssertExpectations(t)
}

func TestUpdate_ForeignImageRejected(t *testing.T) {
	f := newFixture()
	c := star()
	o := existing(c)
	f.repo.On("GetByID", ctx, o.ID).Return(o, nil)

	_, err := f.svc.Update(ctx, o.ID, model.UpdateOutfitRequest{Images: &[]string{"https://elsewhere.example/x.jpg"}}, Uploads{})

	assert.ErrorIs(t, err, model.ErrForeignImage)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdate_ReassignCelebrity(t *testing.T) {
	f := newFixture()
	oldOwner, newOwner := star(), &celebrityModel.Celebrity{ID: uuid.New(), Name: "Other", Slug: "other"}
	o := existing(oldOwner)
	newID := newOwner.ID.String()

	f.repo.On("GetByID", ctx, o.ID).Return(o, nil)
	f.celebrities.On("GetByID", ctx, newOwner.ID).Return(newOwner, nil)
	f.repo.On("Update", ctx, mock.MatchedBy(func(got *model.Outfit) bool {
		return got.CelebrityID == newOwner.ID
	})).Return(nil)

	got, err := f.svc.Update(ctx, o.ID, model.UpdateOutfitRequest{CelebrityID: &newID}, Uploads{})

	require.NoError(t, err)
	assert.Equal(t, "other", got.CelebritySlug)
	f.repo.AssertExpectations(t)
}

func TestUpdate_TitleChangeRederivesSlug(t *testing.T) {
	f := newFixture()
	c := star()
	o := existing(c)
	title := "After Party"

	f.repo.On("GetByID", ctx, o.ID).Return(o, nil)
	f.repo.On("ExistsBySlug", ctx, "after-party", &o.ID).Return(true, nil)

	_, err := f.svc.Update(ctx, o.ID, model.UpdateOutfitRequest{Title: &title}, Uploads{})
	assert.ErrorIs(t, err, model.ErrDuplicateSlug)
}

func TestUpdate_GalleryLimit(t *testing.T) {
	f := newFixture()
	c := star()
	o := existing(c)
	f.repo.On("GetByID", ctx, o.ID).Return(o, nil)

	files := make([]storage.File, model.MaxImages-1)
	for i := range files {
		files[i] = pngFile(t, "x.png")
	}
	_, err := f.svc.Update(ctx, o.ID, model.UpdateOutfitRequest{}, Uploads{Images: files})

	assert.ErrorIs(t, err, model.ErrTooManyImages)
	f.store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// ========== Delete ==========

func TestDelete_EnqueuesFolderCleanupAndRemovesFromContainer(t *testing.T) {
	f := newFixture()
	c := star()
	o := existing(c)
	require.NoError(t, f.outfits.FetchAll(ctx, func(context.Context) ([]model.Outfit, error) {
		return []model.Outfit{*o}, nil
	}))

	f.repo.On("GetByID", ctx, o.ID).Return(o, nil)
	f.repo.On("Delete", ctx, o.ID).Return(nil)
	f.jobs.On("DeleteAssetPrefix", ctx, storage.OutfitPrefix(c.ID, o.ID), "outfit deleted").Return(nil)
	f.jobs.On("DeleteAssetPrefix", ctx, storage.ProductsPrefix(o.ID), "outfit deleted").Return(nil)

	require.NoError(t, f.svc.Delete(ctx, o.ID))

	assert.Empty(t, f.outfits.Snapshot().Items)
	f.jobs.AssertExpectations(t)
	f.jobs.AssertNotCalled(t, "DeleteAssetKeys", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_FailureKeepsContainer(t *testing.T) {
	f := newFixture()
	c := star()
	o := existing(c)
	require.NoError(t, f.outfits.FetchAll(ctx, func(context.Context) ([]model.Outfit, error) {
		return []model.Outfit{*o}, nil
	}))
	f.repo.On("GetByID", ctx, o.ID).Return(o, nil)
	f.repo.On("Delete", ctx, o.ID).Return(errors.New("connection reset"))

	require.Error(t, f.svc.Delete(ctx, o.ID))
	assert.Len(t, f.outfits.Snapshot().Items, 1)
}

// ========== List ==========

func TestList_NormalizesFilter(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.repo.On("List", ctx, model.ListFilter{CelebrityID: &id, Tag: "street-style", Occasion: "Premiere", Limit: defaultLimit}).
		Return([]model.Outfit{}, 0, nil)

	_, _, err := f.svc.List(ctx, model.ListFilter{CelebrityID: &id, Tag: "Street Style", Occasion: " Premiere "})
	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}
