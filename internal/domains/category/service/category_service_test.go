package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"celebstyle-backend/internal/domains/category/model"
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

func (m *mockRepo) Create(ctx context.Context, item *model.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, filter model.ListFilter) ([]model.Item, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Item), args.Int(1), args.Error(2)
}

func (m *mockRepo) Update(ctx context.Context, item *model.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) Categories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *mockRepo) CreateBatch(ctx context.Context, items []*model.Item) error {
	return m.Called(ctx, items).Error(0)
}

type fixture struct {
	repo  *mockRepo
	store *storagetest.MockAssetStore
	jobs  *queuetest.MockEnqueuer
	items *state.Container[model.Item]
	svc   *categoryService
}

var ctx = context.Background()

var fixedNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		repo:  new(mockRepo),
		store: new(storagetest.MockAssetStore),
		jobs:  new(queuetest.MockEnqueuer),
		items: state.New(func(i model.Item) uuid.UUID { return i.ID }),
	}
	uploader := storage.NewUploader(f.store, storage.NewImageProcessor(0))
	f.svc = NewService(f.repo, uploader, f.jobs, f.items).(*categoryService)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

// ========== Create / Update / Delete ==========

func TestCreate_DerivesCategorySlugAndPrice(t *testing.T) {
	f := newFixture()
	f.repo.On("Create", ctx, mock.AnythingOfType("*model.Item")).Return(nil)

	item, err := f.svc.Create(ctx, model.CreateItemRequest{
		CategoryName:  "Statement Bags",
		Title:         "Mini Shoulder Bag",
		Price:         "£450",
		AffiliateLink: "https://shop.example.com/bag",
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "statement-bags", item.CategorySlug)
	assert.Equal(t, "GBP", item.Currency)
	require.NotNil(t, item.PriceAmount)
	assert.Equal(t, "450", item.PriceAmount.String())
	assert.Equal(t, fixedNow, item.CreatedAt)
}

func TestCreate_RejectsSymbolOnlyCategory(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(ctx, model.CreateItemRequest{
		CategoryName: "!!!", Title: "Bag", AffiliateLink: "https://shop.example.com/bag",
	}, nil)

	assert.True(t, errors.Is(err, model.ErrInvalidCategory))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_WhitespaceOnlyRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		req   model.CreateItemRequest
		field string
	}{
		{"category name", model.CreateItemRequest{CategoryName: "   ", Title: "Bag", AffiliateLink: "https://shop.example.com/bag"}, "category_name"},
		{"title", model.CreateItemRequest{CategoryName: "Bags", Title: "\t", AffiliateLink: "https://shop.example.com/bag"}, "title"},
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

func TestUpdate_CategoryRenameMovesSlug(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	existing := &model.Item{ID: id, CategoryName: "Bags", CategorySlug: "bags", Title: "Tote", AffiliateLink: "https://x.example.com"}
	name := "Evening Bags"

	f.repo.On("GetByID", ctx, id).Return(existing, nil)
	f.repo.On("Update", ctx, mock.Anything).Return(nil)

	item, err := f.svc.Update(ctx, id, model.UpdateItemRequest{CategoryName: &name}, nil)

	require.NoError(t, err)
	assert.Equal(t, "evening-bags", item.CategorySlug)
	assert.Equal(t, fixedNow, item.UpdatedAt)
}

func TestDelete_CleansImageAndContainer(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	key := "category-items/bags/tote-abc.jpg"
	require.NoError(t, f.items.FetchAll(ctx, func(context.Context) ([]model.Item, error) {
		return []model.Item{{ID: id}, {ID: uuid.New()}}, nil
	}))
	f.repo.On("GetByID", ctx, id).Return(&model.Item{ID: id, Image: storagetest.URLFor(key)}, nil)
	f.repo.On("Delete", ctx, id).Return(nil)
	f.jobs.On("DeleteAssetKeys", ctx, []string{key}, "category item deleted").Return(nil)

	require.NoError(t, f.svc.Delete(ctx, id))

	f.jobs.AssertExpectations(t)
	assert.Len(t, f.items.Snapshot().Items, 1)
}

// ========== Categories ==========

func TestCategory(t *testing.T) {
	f := newFixture()
	f.repo.On("Categories", ctx).Return([]model.Category{
		{Name: "Statement Bags", Slug: "statement-bags", Count: 4},
	}, nil)

	cat, err := f.svc.Category(ctx, "Statement Bags")
	require.NoError(t, err)
	assert.Equal(t, 4, cat.Count)

	_, err = f.svc.Category(ctx, "sneakers")
	assert.True(t, errors.Is(err, model.ErrCategoryNotFound))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestList_ClampsAndNormalizes(t *testing.T) {
	f := newFixture()
	f.repo.On("List", ctx, model.ListFilter{CategorySlug: "statement-bags", Limit: maxLimit}).Return([]model.Item{}, 0, nil)

	_, _, err := f.svc.List(ctx, model.ListFilter{CategorySlug: "Statement Bags", Limit: 1000, Offset: -5})

	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}

// ========== CSV import ==========

const validCSV = `category_name,title,image,price,retailer,affiliate_link,description
Statement Bags,Mini Shoulder Bag,,$450,Net-a-Porter,https://shop.example.com/bag,Black leather
Sunglasses,Cat Eye Frames,,€189.00,,https://shop.example.com/glasses,
`

func TestImportCSV_AllValidInsertsInOneBatch(t *testing.T) {
	f := newFixture()
	f.repo.On("CreateBatch", ctx, mock.MatchedBy(func(items []*model.Item) bool {
		return len(items) == 2 && items[0].CategorySlug == "statement-bags" && items[1].Currency == "EUR"
	})).Return(nil)

	result, err := f.svc.ImportCSV(ctx, strings.NewReader(validCSV))

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, []string{"statement-bags", "sunglasses"}, result.Categories)
	f.repo.AssertExpectations(t)
}

func TestImportCSV_ColumnOrderAndBOMIgnored(t *testing.T) {
	f := newFixture()
	f.repo.On("CreateBatch", ctx, mock.MatchedBy(func(items []*model.Item) bool {
		return len(items) == 1 && items[0].Title == "Loafers"
	})).Return(nil)

	csv := "\ufeffAffiliate_Link,Title,Category_Name\nhttps://shop.example.com/loafers,Loafers,Shoes\n\n"
	result, err := f.svc.ImportCSV(ctx, strings.NewReader(csv))

	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestImportCSV_AnyInvalidRowRejectsAll(t *testing.T) {
	f := newFixture()
	csv := `category_name,title,price,affiliate_link
Bags,Tote,$120,https://shop.example.com/tote
Bags,,$120,https://shop.example.com/x
Shoes,Boots,twelve dollars,not a url
`

	result, err := f.svc.ImportCSV(ctx, strings.NewReader(csv))

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 2, result.FailedRows)
	assert.Equal(t, 0, result.Imported)

	require.Len(t, result.Errors, 3)
	assert.Equal(t, model.ImportRowError{Row: 3, Field: "title", Error: "title is required"}, result.Errors[0])
	assert.Equal(t, 4, result.Errors[1].Row)
	assert.Equal(t, "affiliate_link", result.Errors[1].Field)
	assert.Equal(t, "price", result.Errors[2].Field)
	assert.Equal(t, "twelve dollars", result.Errors[2].Value)

	f.repo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestImportCSV_FileErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty file", "", model.ErrEmptyImport},
		{"header only", "category_name,title,affiliate_link\n", model.ErrEmptyImport},
		{"missing column", "category_name,title\nBags,Tote\n", model.ErrInvalidCSV},
		{"broken quoting", "category_name,title,affiliate_link\n\"Bags,Tote,x\n", model.ErrInvalidCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.ImportCSV(ctx, strings.NewReader(tt.input))
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestImportCSV_TooManyRows(t *testing.T) {
	f := newFixture()
	var b strings.Builder
	b.WriteString("category_name,title,affiliate_link\n")
	for i := 0; i <= model.MaxImportRows; i++ {
		b.WriteString("Bags,Tote,https://shop.example.com/tote\n")
	}

	_, err := f.svc.ImportCSV(ctx, strings.NewReader(b.String()))

	assert.True(t, errors.Is(err, model.ErrImportTooLarge))
}

// ========== XLSX export ==========

func TestExportXLSX_PagesThroughAllItems(t *testing.T) {
	f := newFixture()
	first := make([]model.Item, exportPageSize)
	for i := range first {
		first[i] = model.Item{ID: uuid.New(), CategoryName: "Bags", Title: "Tote"}
	}
	f.repo.On("List", ctx, model.ListFilter{Limit: exportPageSize, Offset: 0}).Return(first, exportPageSize+1, nil)
	f.repo.On("List", ctx, model.ListFilter{Limit: exportPageSize, Offset: exportPageSize}).
		Return([]model.Item{{ID: uuid.New(), CategoryName: "Shoes", Title: "Loafers"}}, exportPageSize+1, nil)

	file, err := f.svc.ExportXLSX(ctx, model.ListFilter{})
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("Category Items")
	require.NoError(t, err)
	assert.Len(t, rows, exportPageSize+2)
	assert.Equal(t, "category_name", rows[0][0])
	assert.Equal(t, "Loafers", rows[exportPageSize+1][1])
}
