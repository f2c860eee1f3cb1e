// conf/validate.go
package conf

import (
	"fmt"
	"strconv"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateOutputSettings(&settings.Output); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateSentimentSettings(&settings.Sentiment); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateWebServerSettings validates the web server settings
func validateWebServerSettings(settings *WebServerSettings) error {
	if settings.Enabled {
		port, err := strconv.Atoi(settings.Port)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("invalid webserver port: %s", settings.Port)
		}
	}
	return nil
}

// validateOutputSettings validates the database output settings
func validateOutputSettings(settings *OutputSettings) error {
	if !settings.SQLite.Enabled && !settings.MySQL.Enabled {
		return fmt.Errorf("at least one database output must be enabled")
	}
	if settings.SQLite.Enabled && settings.SQLite.Path == "" {
		return fmt.Errorf("sqlite output enabled but path is empty")
	}
	if settings.MySQL.Enabled {
		if settings.MySQL.Database == "" || settings.MySQL.Host == "" {
			return fmt.Errorf("mysql output enabled but database or host is empty")
		}
	}
	return nil
}

// validateSentimentSettings validates the sentiment collaborator settings
func validateSentimentSettings(settings *SentimentSettings) error {
	if settings.Endpoint == "" {
		return fmt.Errorf("sentiment endpoint must not be empty")
	}
	if settings.Timeout <= 0 {
		return fmt.Errorf("sentiment timeout must be positive, got %d", settings.Timeout)
	}
	if settings.CacheTTL < 0 {
		return fmt.Errorf("sentiment cache TTL must not be negative, got %d", settings.CacheTTL)
	}
	return nil
}
