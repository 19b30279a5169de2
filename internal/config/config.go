// Package config loads runtime settings from the environment.
//
// A .env file in the working directory is loaded first (see Load); real
// environment variables always win over it.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"

	ProviderStripe      = "stripe"
	ProviderMercadoPago = "mercadopago"
)

var (
	ErrMissingAdminPassword   = errors.New("missing ADMIN_PASSWORD")
	ErrMissingStripeKey       = errors.New("missing STRIPE_SECRET_KEY")
	ErrMissingMercadoPagoKey  = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
	ErrMissingDatabaseDSN     = errors.New("missing DATABASE_DSN")
	ErrUnknownStoreBackend    = errors.New("unknown STORE_BACKEND")
	ErrUnknownPaymentProvider = errors.New("unknown PAYMENT_PROVIDER")
)

// Config holds every tunable of the service.
type Config struct {
	Port     int
	LogLevel string

	StoreBackend         string
	DatabaseDSN          string
	AWSRegion            string
	DynamoDBEndpoint     string
	SettingsTable        string
	BoxesTable           string
	PaymentAttemptsTable string

	PaymentProvider          string
	PaymentGatewayMock       bool
	PaymentCurrency          string
	StripeSecretKey          string
	StripeWebhookSecret      string
	MercadoPagoAccessToken   string
	MercadoPagoWebhookSecret string
	MercadoPagoPaymentMethod string
	MercadoPagoPayerEmail    string

	AdminPassword      string
	HoldTTL            time.Duration
	HoldSweepInterval  time.Duration
	ExposeErrorDetails bool
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Port = 8080
	c.LogLevel = "info"
	c.StoreBackend = BackendDynamoDB
	c.AWSRegion = "us-east-1"
	c.SettingsTable = "settings"
	c.BoxesTable = "boxes"
	c.PaymentAttemptsTable = "payment_attempts"
	c.PaymentProvider = ProviderStripe
	c.PaymentCurrency = "usd"
	c.MercadoPagoPaymentMethod = "pix"
	c.HoldTTL = 10 * time.Minute
	c.HoldSweepInterval = 30 * time.Second
}

// Environment keys.
const (
	keyPort                     = "PORT"
	keyLogLevel                 = "LOG_LEVEL"
	keyStoreBackend             = "STORE_BACKEND"
	keyDatabaseDSN              = "DATABASE_DSN"
	keyAWSRegion                = "AWS_REGION"
	keyDynamoDBEndpoint         = "DYNAMODB_ENDPOINT"
	keySettingsTable            = "SETTINGS_TABLE"
	keyBoxesTable               = "BOXES_TABLE"
	keyPaymentAttemptsTable     = "PAYMENT_ATTEMPTS_TABLE"
	keyPaymentProvider          = "PAYMENT_PROVIDER"
	keyPaymentGatewayMock       = "PAYMENT_GATEWAY_MOCK"
	keyMercadoPagoMock          = "MERCADOPAGO_MOCK"
	keyPaymentCurrency          = "PAYMENT_CURRENCY"
	keyStripeSecretKey          = "STRIPE_SECRET_KEY"
	keyStripeWebhookSecret      = "STRIPE_WEBHOOK_SECRET"
	keyMercadoPagoAccessToken   = "MERCADOPAGO_ACCESS_TOKEN"
	keyMercadoPagoWebhookSecret = "MERCADOPAGO_WEBHOOK_SECRET"
	keyMercadoPagoPaymentMethod = "MERCADOPAGO_PAYMENT_METHOD_ID"
	keyMercadoPagoPayerEmail    = "MERCADOPAGO_PAYER_EMAIL"
	keyAdminPassword            = "ADMIN_PASSWORD"
	keyHoldTTL                  = "HOLD_TTL"
	keyHoldSweepInterval        = "HOLD_SWEEP_INTERVAL"
	keyExposeErrorDetails       = "EXPOSE_ERROR_DETAILS"
)

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromViper(NewViper())
}

// NewViper returns a viper instance bound to the process environment with
// every default registered.
func NewViper() *viper.Viper {
	d := &Config{}
	d.LoadDefaults()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault(keyPort, d.Port)
	v.SetDefault(keyLogLevel, d.LogLevel)
	v.SetDefault(keyStoreBackend, d.StoreBackend)
	v.SetDefault(keyAWSRegion, d.AWSRegion)
	v.SetDefault(keySettingsTable, d.SettingsTable)
	v.SetDefault(keyBoxesTable, d.BoxesTable)
	v.SetDefault(keyPaymentAttemptsTable, d.PaymentAttemptsTable)
	v.SetDefault(keyPaymentProvider, d.PaymentProvider)
	v.SetDefault(keyPaymentCurrency, d.PaymentCurrency)
	v.SetDefault(keyMercadoPagoPaymentMethod, d.MercadoPagoPaymentMethod)
	v.SetDefault(keyHoldTTL, d.HoldTTL)
	v.SetDefault(keyHoldSweepInterval, d.HoldSweepInterval)
	v.SetDefault(keyExposeErrorDetails, false)

	return v
}

// FromViper builds a Config from v. Numeric and duration values are parsed
// strictly so a typo fails startup instead of silently becoming zero.
func FromViper(v *viper.Viper) (*Config, error) {
	c := &Config{}

	var err error
	if c.Port, err = cast.ToIntE(v.Get(keyPort)); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyPort, err)
	}
	c.LogLevel = v.GetString(keyLogLevel)

	c.StoreBackend = strings.ToLower(v.GetString(keyStoreBackend))
	c.DatabaseDSN = v.GetString(keyDatabaseDSN)
	c.AWSRegion = v.GetString(keyAWSRegion)
	c.DynamoDBEndpoint = v.GetString(keyDynamoDBEndpoint)
	c.SettingsTable = v.GetString(keySettingsTable)
	c.BoxesTable = v.GetString(keyBoxesTable)
	c.PaymentAttemptsTable = v.GetString(keyPaymentAttemptsTable)

	c.PaymentProvider = strings.ToLower(v.GetString(keyPaymentProvider))
	c.PaymentGatewayMock = flag(v, keyPaymentGatewayMock) || flag(v, keyMercadoPagoMock)
	c.PaymentCurrency = strings.ToLower(v.GetString(keyPaymentCurrency))
	c.StripeSecretKey = v.GetString(keyStripeSecretKey)
	c.StripeWebhookSecret = v.GetString(keyStripeWebhookSecret)
	c.MercadoPagoAccessToken = v.GetString(keyMercadoPagoAccessToken)
	c.MercadoPagoWebhookSecret = v.GetString(keyMercadoPagoWebhookSecret)
	c.MercadoPagoPaymentMethod = v.GetString(keyMercadoPagoPaymentMethod)
	c.MercadoPagoPayerEmail = v.GetString(keyMercadoPagoPayerEmail)

	c.AdminPassword = v.GetString(keyAdminPassword)
	if c.HoldTTL, err = cast.ToDurationE(v.Get(keyHoldTTL)); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyHoldTTL, err)
	}
	if c.HoldSweepInterval, err = cast.ToDurationE(v.Get(keyHoldSweepInterval)); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyHoldSweepInterval, err)
	}
	c.ExposeErrorDetails = flag(v, keyExposeErrorDetails)

	return c, nil
}

// Validate reports configuration that would make the server unusable.
// Missing ADMIN_PASSWORD is not fatal: admin routes simply reject everyone.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case BackendDynamoDB:
	case BackendPostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, ErrMissingDatabaseDSN)
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownStoreBackend, c.StoreBackend))
	}

	if !c.PaymentGatewayMock {
		switch c.PaymentProvider {
		case ProviderStripe:
			if c.StripeSecretKey == "" {
				errs = append(errs, ErrMissingStripeKey)
			}
		case ProviderMercadoPago:
			if c.MercadoPagoAccessToken == "" {
				errs = append(errs, ErrMissingMercadoPagoKey)
			}
		default:
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownPaymentProvider, c.PaymentProvider))
		}
	}

	if c.HoldTTL <= 0 {
		errs = append(errs, fmt.Errorf("HOLD_TTL must be positive, got %s", c.HoldTTL))
	}

	return errors.Join(errs...)
}

// flag accepts the mock-mode spellings used by deploy scripts ("yes", "on",
// "mock") on top of what viper.GetBool understands.
func flag(v *viper.Viper, key string) bool {
	switch strings.ToLower(strings.TrimSpace(v.GetString(key))) {
	case "yes", "on", "mock":
		return true
	}
	return v.GetBool(key)
}
