package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Redis holds the Redis connection configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Checkout holds the checkout computation settings.
	Checkout CheckoutConfig `mapstructure:",squash"`

	// Payment holds the payment gateway configuration.
	Payment PaymentConfig `mapstructure:",squash"`
}

// RedisConfig holds the Redis connection details.
type RedisConfig struct {
	// URL is the Redis connection string, e.g. redis://:password@host:6379/0.
	URL string `mapstructure:"REDIS_URL" required:"true"`
}

// CheckoutConfig holds the checkout computation settings.
type CheckoutConfig struct {
	// ShippingFee is the flat shipping fee applied to every order, as a decimal string.
	ShippingFee string `mapstructure:"CHECKOUT_SHIPPING_FEE" default:"5.99"`
	// ClearCart controls whether the session cart is emptied once an order is placed.
	ClearCart bool `mapstructure:"CHECKOUT_CLEAR_CART" default:"true"`
}

// PaymentConfig holds the payment gateway settings.
type PaymentConfig struct {
	// Mode selects the gateway implementation: "simulated" or "http".
	Mode string `mapstructure:"PAYMENT_MODE" default:"simulated"`
	// GatewayURL is the base URL of the external payment gateway (http mode).
	GatewayURL string `mapstructure:"PAYMENT_GATEWAY_URL"`
	// APIKey authenticates requests against the external gateway (http mode).
	APIKey string `mapstructure:"PAYMENT_API_KEY"`
	// TimeoutSeconds bounds a single charge attempt.
	TimeoutSeconds int `mapstructure:"PAYMENT_TIMEOUT_SECONDS" default:"10"`
	// FailureRate is the fraction of simulated charges that are declined (0.0-1.0).
	FailureRate float64 `mapstructure:"PAYMENT_FAILURE_RATE" default:"0"`
	// LatencyMS is the artificial latency of a simulated charge, in milliseconds.
	LatencyMS int `mapstructure:"PAYMENT_LATENCY_MS" default:"0"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
