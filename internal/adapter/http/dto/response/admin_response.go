package response

import "time"

type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SetPriceResponse struct {
	OK       bool    `json:"ok"`
	PriceUSD float64 `json:"priceUsd"`
}
