// internal/pkg/config/validators.go
package config

import (
	"fmt"
	"reflect"
	"strings"
)

// Validator checks one aspect of a loaded configuration
type Validator interface {
	Validate(cfg *Config) error
}

// BasicValidator performs basic configuration validation
type BasicValidator struct{}

// Validate performs basic validation
func (v *BasicValidator) Validate(cfg *Config) error {
	if err := validateRequiredFields(cfg); err != nil {
		return err
	}

	if err := validBaseURL(cfg.API.BaseURL); err != nil {
		return err
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive")
	}
	if cfg.API.RateLimit < 0 {
		return fmt.Errorf("api rate limit must not be negative")
	}
	if cfg.API.RateLimit > 0 && cfg.API.RateBurst <= 0 {
		return fmt.Errorf("api rate burst must be positive when rate limiting is enabled")
	}

	switch cfg.Session.Store {
	case "file":
		if cfg.Session.File == "" {
			return fmt.Errorf("%w: session file", ErrMissingRequiredConfig)
		}
	case "redis":
		if !cfg.Redis.Enabled {
			return fmt.Errorf("redis session store requires REDIS_ENABLED=true")
		}
	default:
		return fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}

	switch cfg.Files.ExportDriver {
	case "local", "s3":
	default:
		return fmt.Errorf("unknown export driver %q", cfg.Files.ExportDriver)
	}

	if cfg.Redis.Enabled && cfg.Redis.PoolSize <= 0 {
		return fmt.Errorf("redis pool_size must be positive")
	}

	return nil
}

// ProductionValidator performs strict validation for production environments
type ProductionValidator struct{}

// Validate performs production-specific validation
func (v *ProductionValidator) Validate(cfg *Config) error {
	if !strings.HasPrefix(cfg.API.BaseURL, "https://") {
		return fmt.Errorf("API base URL must use https in production")
	}

	if cfg.Files.ExportDriver == "s3" && cfg.AWS.S3Endpoint != "" && cfg.AWS.UsePathStyle {
		return fmt.Errorf("path-style S3 endpoints are for development only")
	}

	if strings.Contains(cfg.Worker.Password, "MISSING_") {
		return fmt.Errorf("%w: worker password", ErrMissingRequiredConfig)
	}

	return nil
}

// validateRequiredFields uses reflection to check required struct tags
func validateRequiredFields(cfg interface{}) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	return validateStruct(v, "")
}

func validateStruct(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		fieldName := fieldType.Name

		if prefix != "" {
			fieldName = prefix + "." + fieldName
		}

		if required := fieldType.Tag.Get("required"); required == "true" {
			if isZeroValue(field) {
				return fmt.Errorf("%w: %s", ErrMissingRequiredConfig, fieldName)
			}
		}

		if field.Kind() == reflect.Struct {
			if err := validateStruct(field, fieldName); err != nil {
				return err
			}
		}
	}

	return nil
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == "" || strings.HasPrefix(v.String(), "MISSING_")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
