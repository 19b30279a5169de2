package entities

import "time"

// SettingKeyPriceUSD is the only setting the service knows about.
const SettingKeyPriceUSD = "price_usd"

// Price bounds accepted by the admin price update.
const (
	MaxPriceUSD = 9999
)

// Setting is a persisted numeric configuration value.
//
// Storage model:
//   - DynamoDB: PK key (string), value stored as N
//   - Postgres: settings.key primary key
type Setting struct {
	Key       string    `json:"key"`
	Value     float64   `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
