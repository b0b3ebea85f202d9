package domain

import "time"

// Default settings.
const (
	DefaultAPIURL          = "http://localhost:8001"
	DefaultTimeoutSeconds  = 300
	DefaultRatePerSecond   = 5
	DefaultBurst           = 5
	DefaultCallbackPort    = 18765
	DefaultExportDirectory = "."
)

// APISettings configures the remote service connection.
type APISettings struct {
	URL            string
	TimeoutSeconds int
	RatePerSecond  int
	Burst          int
}

// Timeout returns the per-call transport timeout.
func (s APISettings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// OAuthSettings configures browser login.
type OAuthSettings struct {
	// LoginURL is the provider login page. Empty disables browser login.
	LoginURL     string
	CallbackPort int
}

// ExportSettings configures where exports are written.
type ExportSettings struct {
	Dir string
}

// AppSettings is the full application configuration.
type AppSettings struct {
	API    APISettings
	OAuth  OAuthSettings
	Export ExportSettings
	// Legal holds the default legal page options.
	Legal LegalOptions
}

// DefaultAppSettings returns settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			URL:            DefaultAPIURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
			RatePerSecond:  DefaultRatePerSecond,
			Burst:          DefaultBurst,
		},
		OAuth: OAuthSettings{
			CallbackPort: DefaultCallbackPort,
		},
		Export: ExportSettings{
			Dir: DefaultExportDirectory,
		},
	}
}
