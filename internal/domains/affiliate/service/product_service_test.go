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

	"celebstyle-backend/internal/domains/affiliate/model"
	outfitModel "celebstyle-backend/internal/domains/outfit/model"
	"celebstyle-backend/internal/infrastructure/queue/queuetest"
	"celebstyle-backend/internal/infrastructure/storage"
	"celebstyle-backend/internal/infrastructure/storage/storagetest"
	"celebstyle-backend/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, p *model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, filter model.ListFilter) ([]model.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Product), args.Int(1), args.Error(2)
}

func (m *mockRepo) Update(ctx context.Context, p *model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockOutfits struct {
	mock.Mock
}

func (m *mockOutfits) GetByID(ctx context.Context, id uuid.UUID) (*outfitModel.Outfit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outfitModel.Outfit), args.Error(1)
}

type fixture struct {
	repo    *mockRepo
	outfits *mockOutfits
	store   *storagetest.MockAssetStore
	jobs    *queuetest.MockEnqueuer
	svc     *productService
}

func newFixture() *fixture {
	f := &fixture{
		repo:    new(mockRepo),
		outfits: new(mockOutfits),
		store:   new(storagetest.MockAssetStore),
		jobs:    new(queuetest.MockEnqueuer),
	}
	uploader := storage.NewUploader(f.store, storage.NewImageProcessor(0))
	f.svc = NewService(f.repo, f.outfits, uploader, f.jobs).(*productService)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return f
}

var ctx = context.Background()

func pngFile(t *testing.T) *storage.File {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return &storage.File{Name: "bag.png", Data: buf.Bytes()}
}

func validCreate(outfitID uuid.UUID) model.CreateProductRequest {
	return model.CreateProductRequest{
		OutfitID:      outfitID.String(),
		Title:         "Quilted Bag",
		Price:         "€89.90",
		Retailer:      "Net-a-Porter",
		AffiliateLink: "https://shop.example.com/bag?ref=celebstyle",
	}
}

func TestCreate_ParsesPriceAndUploadsUnderOutfitFolder(t *testing.T) {
	f := newFixture()
	outfitID := uuid.New()
	url := storagetest.URLFor("products/" + outfitID.String() + "/quilted-bag-x.jpg")

	f.outfits.On("GetByID", ctx, outfitID).Return(&outfitModel.Outfit{ID: outfitID}, nil)
	f.store.On("Upload", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "products/"+outfitID.String()+"/quilted-bag-")
	}), mock.Anything, "image/jpeg").Return(url, nil)
	f.repo.On("Create", ctx, mock.AnythingOfType("*model.Product")).Return(nil)

	p, err := f.svc.Create(ctx, validCreate(outfitID), pngFile(t))

	require.NoError(t, err)
	assert.Equal(t, url, p.Image)
	assert.Equal(t, "€89.90", p.Price)
	require.NotNil(t, p.PriceAmount)
	assert.Equal(t, "89.9", p.PriceAmount.String())
	assert.Equal(t, "EUR", p.Currency)
}

func TestCreate_UnknownOutfitIsReferential(t *testing.T) {
	f := newFixture()
	outfitID := uuid.New()
	f.outfits.On("GetByID", ctx, outfitID).Return(nil, outfitModel.ErrOutfitNotFound)

	_, err := f.svc.Create(ctx, validCreate(outfitID), nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnknownOutfit))
	assert.Equal(t, apperror.KindReferential, apperror.KindOf(err))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(r *model.CreateProductRequest)
		field string
	}{
		{"malformed price", func(r *model.CreateProductRequest) { r.Price = "cheap" }, "price"},
		{"missing link", func(r *model.CreateProductRequest) { r.AffiliateLink = "" }, "affiliate_link"},
		{"bad outfit id", func(r *model.CreateProductRequest) { r.OutfitID = "nope" }, "outfit_id"},
		{"missing title", func(r *model.CreateProductRequest) { r.Title = "" }, "title"},
		{"whitespace title", func(r *model.CreateProductRequest) { r.Title = "  \t " }, "title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validCreate(uuid.New())
			tt.edit(&req)

			_, err := f.svc.Create(ctx, req, nil)

			appErr, ok := apperror.As(err)
			require.True(t, ok)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			assert.Contains(t, appErr.Fields, tt.field)
		})
	}
}

func TestCreate_WriteFailureDiscardsUpload(t *testing.T) {
	f := newFixture()
	outfitID := uuid.New()
	url := storagetest.URLFor("products/x/quilted-bag-1.jpg")

	f.outfits.On("GetByID", ctx, outfitID).Return(&outfitModel.Outfit{ID: outfitID}, nil)
	f.store.On("Upload", ctx, mock.Anything, mock.Anything, "image/jpeg").Return(url, nil)
	f.repo.On("Create", ctx, mock.Anything).Return(errors.New("db down"))
	f.store.On("DeleteKeys", mock.Anything, mock.MatchedBy(func(keys []string) bool { return len(keys) == 1 })).Return(nil)

	_, err := f.svc.Create(ctx, validCreate(outfitID), pngFile(t))

	require.Error(t, err)
	f.store.AssertCalled(t, "DeleteKeys", mock.Anything, mock.Anything)
}

func TestUpdate_ClearPriceAndMoveOutfit(t *testing.T) {
	f := newFixture()
	id, oldOutfit, newOutfit := uuid.New(), uuid.New(), uuid.New()
	existing := &model.Product{ID: id, OutfitID: oldOutfit, Title: "Bag", Price: "$10", Currency: "USD"}
	empty := ""
	target := newOutfit.String()

	f.repo.On("GetByID", ctx, id).Return(existing, nil)
	f.outfits.On("GetByID", ctx, newOutfit).Return(&outfitModel.Outfit{ID: newOutfit}, nil)
	f.repo.On("Update", ctx, mock.Anything).Return(nil)

	p, err := f.svc.Update(ctx, id, model.UpdateProductRequest{OutfitID: &target, Price: &empty}, nil)

	require.NoError(t, err)
	assert.Equal(t, newOutfit, p.OutfitID)
	assert.Empty(t, p.Price)
	assert.Nil(t, p.PriceAmount)
}

func TestDelete_EnqueuesImageCleanup(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	key := "products/o/bag-1.jpg"
	f.repo.On("GetByID", ctx, id).Return(&model.Product{ID: id, Image: storagetest.URLFor(key)}, nil)
	f.repo.On("Delete", ctx, id).Return(nil)
	f.jobs.On("DeleteAssetKeys", ctx, []string{key}, "product deleted").Return(nil)

	require.NoError(t, f.svc.Delete(ctx, id))
	f.jobs.AssertExpectations(t)
}

func TestDelete_ExternalImageNotCleaned(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.repo.On("GetByID", ctx, id).Return(&model.Product{ID: id, Image: "https://cdn.retailer.com/bag.jpg"}, nil)
	f.repo.On("Delete", ctx, id).Return(nil)

	require.NoError(t, f.svc.Delete(ctx, id))
	f.jobs.AssertNotCalled(t, "DeleteAssetKeys", mock.Anything, mock.Anything, mock.Anything)
}

func TestList_ClampsLimit(t *testing.T) {
	f := newFixture()
	f.repo.On("List", ctx, model.ListFilter{Limit: maxLimit, Search: "bag"}).Return([]model.Product{}, 0, nil)

	_, _, err := f.svc.List(ctx, model.ListFilter{Limit: 1000, Offset: -3, Search: "  bag "})

	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}
