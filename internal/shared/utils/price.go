package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedPrice trả về khi display price không đúng format
var ErrMalformedPrice = errors.New("price must look like $120, €89.90 or 120.00 USD")

// $120 | €89.90 | 1,250 | USD 99 | 120.00 USD
var priceRe = regexp.MustCompile(`^(?:([$€£¥₫])\s?|([A-Z]{3})\s)?(\d{1,3}(?:,\d{3})+|\d+)(?:\.(\d{1,2}))?(?:\s?([A-Z]{3}))?$`)

var currencySymbols = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
	"₫": "VND",
}

// Price là display string của affiliate/category item kèm amount đã parse
type Price struct {
	Display  string
	Amount   decimal.Decimal
	Currency string
}

// ParsePrice validate và parse display price. Chuỗi rỗng → nil (price là optional).
func ParsePrice(s string) (*Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	m := priceRe.FindStringSubmatch(s)
	if m == nil {
		return nil, ErrMalformedPrice
	}

	symbol, prefixCode, whole, frac, suffixCode := m[1], m[2], m[3], m[4], m[5]

	// Không cho phép vừa prefix vừa suffix currency ("$120 USD")
	if (symbol != "" || prefixCode != "") && suffixCode != "" {
		return nil, ErrMalformedPrice
	}

	number := strings.ReplaceAll(whole, ",", "")
	if frac != "" {
		number += "." + frac
	}
	amount, err := decimal.NewFromString(number)
	if err != nil {
		return nil, ErrMalformedPrice
	}

	currency := currencySymbols[symbol]
	if prefixCode != "" {
		currency = prefixCode
	}
	if suffixCode != "" {
		currency = suffixCode
	}

	return &Price{Display: s, Amount: amount, Currency: currency}, nil
}

// PriceAmount trả về pointer amount cho repository (nil khi không có price)
func (p *Price) PriceAmount() *decimal.Decimal {
	if p == nil {
		return nil
	}
	amount := p.Amount
	return &amount
}
