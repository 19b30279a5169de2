package request

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrInvalidPriceValue = errors.New("invalid priceUsd")
)

type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// SetPriceRequest accepts priceUsd as a JSON number or a numeric string.
type SetPriceRequest struct {
	PriceUSD any `json:"priceUsd"`
}

func (r SetPriceRequest) ResolvePrice() (float64, error) {
	switch v := r.PriceUSD.(type) {
	case float64:
		return v, nil
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, ErrInvalidPriceValue
		}
		return p, nil
	default:
		return 0, ErrInvalidPriceValue
	}
}
