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

// Product - link mua hàng affiliate gắn với một outfit
type Product struct {
	ID            uuid.UUID        `json:"id"`
	OutfitID      uuid.UUID        `json:"outfit_id"`
	Image         string           `json:"image"`
	Title         string           `json:"title"`
	Price         string           `json:"price,omitempty"`        // display string: "$120", "€89.90"
	PriceAmount   *decimal.Decimal `json:"price_amount,omitempty"` // parse từ Price
	Currency      string           `json:"currency,omitempty"`
	Retailer      string           `json:"retailer,omitempty"`
	AffiliateLink string           `json:"affiliate_link"`
	Description   string           `json:"description,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// SetPrice ghi display price và amount đã parse (p nil → xóa price)
func (p *Product) SetPrice(price *utils.Price) {
	if price == nil {
		p.Price, p.PriceAmount, p.Currency = "", nil, ""
		return
	}
	p.Price = price.Display
	p.PriceAmount = price.PriceAmount()
	p.Currency = price.Currency
}

type ListFilter struct {
	OutfitID *uuid.UUID
	Retailer string
	Search   string
	Limit    int
	Offset   int
}

// ========================================
// REQUEST DTOs
// ========================================

// CreateProductRequest - POST /admin/products
type CreateProductRequest struct {
	OutfitID      string `json:"outfit_id"`
	Image         string `json:"image,omitempty"`
	Title         string `json:"title"`
	Price         string `json:"price,omitempty"`
	Retailer      string `json:"retailer,omitempty"`
	AffiliateLink string `json:"affiliate_link"`
	Description   string `json:"description,omitempty"`
}

func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OutfitID, validation.Required.Error("outfit_id is required"), is.UUID),
		validation.Field(&r.Title, apperror.NotBlank("title is required"), validation.Length(1, 200)),
		validation.Field(&r.Image, is.URL),
		validation.Field(&r.Price, validation.By(validPrice)),
		validation.Field(&r.Retailer, validation.Length(0, 100)),
		validation.Field(&r.AffiliateLink, validation.Required.Error("affiliate_link is required"), is.URL),
		validation.Field(&r.Description, validation.Length(0, 2000)),
	)
}

// ToEntity build Product (price đã được validate)
func (r CreateProductRequest) ToEntity() *Product {
	p := &Product{
		OutfitID:      uuid.MustParse(r.OutfitID),
		Image:         r.Image,
		Title:         strings.TrimSpace(r.Title),
		Retailer:      strings.TrimSpace(r.Retailer),
		AffiliateLink: strings.TrimSpace(r.AffiliateLink),
		Description:   r.Description,
	}
	price, _ := utils.ParsePrice(r.Price)
	p.SetPrice(price)
	return p
}

// UpdateProductRequest - PUT /admin/products/:id
type UpdateProductRequest struct {
	OutfitID      *string `json:"outfit_id,omitempty"`
	Image         *string `json:"image,omitempty"`
	Title         *string `json:"title,omitempty"`
	Price         *string `json:"price,omitempty"` // "" để xóa
	Retailer      *string `json:"retailer,omitempty"`
	AffiliateLink *string `json:"affiliate_link,omitempty"`
	Description   *string `json:"description,omitempty"`
}

func (r UpdateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OutfitID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&r.Title, apperror.NilOrNotBlank("title cannot be empty"), validation.Length(1, 200)),
		validation.Field(&r.Image, is.URL),
		validation.Field(&r.Price, validation.By(validPrice)),
		validation.Field(&r.Retailer, validation.Length(0, 100)),
		validation.Field(&r.AffiliateLink, validation.NilOrNotEmpty.Error("affiliate_link cannot be empty"), is.URL),
		validation.Field(&r.Description, validation.Length(0, 2000)),
	)
}

// ApplyTo ghi field được set (OutfitID do service xử lý vì cần check tồn tại)
func (r UpdateProductRequest) ApplyTo(p *Product) {
	setString(&p.Image, r.Image)
	setString(&p.Title, r.Title)
	if r.Price != nil {
		price, _ := utils.ParsePrice(*r.Price)
		p.SetPrice(price)
	}
	setString(&p.Retailer, r.Retailer)
	setString(&p.AffiliateLink, r.AffiliateLink)
	setString(&p.Description, r.Description)
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
