package model

import (
	"strings"
	"time"

	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item - sản phẩm trong catalog shop-by-category, độc lập với outfit
type Item struct {
	ID            uuid.UUID        `json:"id"`
	CategoryName  string           `json:"category_name"`
	CategorySlug  string           `json:"category_slug"`
	Title         string           `json:"title"`
	Image         string           `json:"image"`
	Price         string           `json:"price,omitempty"`
	PriceAmount   *decimal.Decimal `json:"price_amount,omitempty"`
	Currency      string           `json:"currency,omitempty"`
	Retailer      string           `json:"retailer,omitempty"`
	AffiliateLink string           `json:"affiliate_link"`
	Description   string           `json:"description,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (i *Item) SetPrice(price *utils.Price) {
	if price == nil {
		i.Price, i.PriceAmount, i.Currency = "", nil, ""
		return
	}
	i.Price = price.Display
	i.PriceAmount = price.PriceAmount()
	i.Currency = price.Currency
}

// Category - nhóm item kèm số lượng (GET /categories)
type Category struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
	Image string `json:"image,omitempty"` // ảnh của item mới nhất
}

// Sort options
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortTitleAsc  = "name_asc"
	SortTitleDesc = "name_desc"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

type ListFilter struct {
	CategorySlug string
	Retailer     string
	Search       string
	Sort         string
	Limit        int
	Offset       int
}

// ========================================
// REQUEST DTOs
// ========================================

// CreateItemRequest - POST /admin/category-items (và từng dòng CSV import)
type CreateItemRequest struct {
	CategoryName  string `json:"category_name"`
	Title         string `json:"title"`
	Image         string `json:"image,omitempty"`
	Price         string `json:"price,omitempty"`
	Retailer      string `json:"retailer,omitempty"`
	AffiliateLink string `json:"affiliate_link"`
	Description   string `json:"description,omitempty"`
}

func (r CreateItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CategoryName, apperror.NotBlank("category_name is required"), validation.Length(1, 50)),
		validation.Field(&r.Title, apperror.NotBlank("title is required"), validation.Length(1, 200)),
		validation.Field(&r.Image, is.URL),
		validation.Field(&r.Price, validation.By(validPrice)),
		validation.Field(&r.Retailer, validation.Length(0, 100)),
		validation.Field(&r.AffiliateLink, validation.Required.Error("affiliate_link is required"), is.URL),
		validation.Field(&r.Description, validation.Length(0, 2000)),
	)
}

func (r CreateItemRequest) ToEntity() *Item {
	item := &Item{
		CategoryName:  strings.TrimSpace(r.CategoryName),
		Title:         strings.TrimSpace(r.Title),
		Image:         strings.TrimSpace(r.Image),
		Retailer:      strings.TrimSpace(r.Retailer),
		AffiliateLink: strings.TrimSpace(r.AffiliateLink),
		Description:   r.Description,
	}
	item.CategorySlug = utils.GenerateSlug(item.CategoryName)
	price, _ := utils.ParsePrice(r.Price)
	item.SetPrice(price)
	return item
}

// UpdateItemRequest - PUT /admin/category-items/:id
type UpdateItemRequest struct {
	CategoryName  *string `json:"category_name,omitempty"`
	Title         *string `json:"title,omitempty"`
	Image         *string `json:"image,omitempty"`
	Price         *string `json:"price,omitempty"`
	Retailer      *string `json:"retailer,omitempty"`
	AffiliateLink *string `json:"affiliate_link,omitempty"`
	Description   *string `json:"description,omitempty"`
}

func (r UpdateItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CategoryName, apperror.NilOrNotBlank("category_name cannot be empty"), validation.Length(1, 50)),
		validation.Field(&r.Title, apperror.NilOrNotBlank("title cannot be empty"), validation.Length(1, 200)),
		validation.Field(&r.Image, is.URL),
		validation.Field(&r.Price, validation.By(validPrice)),
		validation.Field(&r.Retailer, validation.Length(0, 100)),
		validation.Field(&r.AffiliateLink, validation.NilOrNotEmpty.Error("affiliate_link cannot be empty"), is.URL),
		validation.Field(&r.Description, validation.Length(0, 2000)),
	)
}

func (r UpdateItemRequest) ApplyTo(i *Item) {
	if r.CategoryName != nil {
		i.CategoryName = strings.TrimSpace(*r.CategoryName)
		i.CategorySlug = utils.GenerateSlug(i.CategoryName)
	}
	setString(&i.Title, r.Title)
	setString(&i.Image, r.Image)
	if r.Price != nil {
		price, _ := utils.ParsePrice(*r.Price)
		i.SetPrice(price)
	}
	setString(&i.Retailer, r.Retailer)
	setString(&i.AffiliateLink, r.AffiliateLink)
	setString(&i.Description, r.Description)
}

func validPrice(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}
	if _, err := utils.ParsePrice(s); err != nil {
		return validation.NewError("validation_price_format", err.Error())
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
