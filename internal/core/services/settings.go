package services

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driven"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyAPIURL         = "api.url"
	KeyAPITimeout     = "api.timeout_seconds"
	KeyAPIRate        = "api.rate_per_second"
	KeyAPIBurst       = "api.burst"
	KeyOAuthLoginURL  = "oauth.login_url"
	KeyOAuthPort      = "oauth.callback_port"
	KeyExportDir      = "export.dir"
	KeyLegalPublisher = "legal.publisher"
	KeyLegalEdition   = "legal.edition"
)

// settingKind is how a setting's text value is validated and stored.
type settingKind int

const (
	kindString settingKind = iota
	kindURL
	kindPositiveInt
	kindPort
)

var settingKinds = map[string]settingKind{
	KeyAPIURL:         kindURL,
	KeyAPITimeout:     kindPositiveInt,
	KeyAPIRate:        kindPositiveInt,
	KeyAPIBurst:       kindPositiveInt,
	KeyOAuthLoginURL:  kindURL,
	KeyOAuthPort:      kindPort,
	KeyExportDir:      kindString,
	KeyLegalPublisher: kindString,
	KeyLegalEdition:   kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	return &domain.AppSettings{
		API: domain.APISettings{
			URL:            s.getString(KeyAPIURL, defaults.API.URL),
			TimeoutSeconds: s.getInt(KeyAPITimeout, defaults.API.TimeoutSeconds),
			RatePerSecond:  s.getInt(KeyAPIRate, defaults.API.RatePerSecond),
			Burst:          s.getInt(KeyAPIBurst, defaults.API.Burst),
		},
		OAuth: domain.OAuthSettings{
			LoginURL:     s.configStore.GetString(KeyOAuthLoginURL),
			CallbackPort: s.getInt(KeyOAuthPort, defaults.OAuth.CallbackPort),
		},
		Export: domain.ExportSettings{
			Dir: s.getString(KeyExportDir, defaults.Export.Dir),
		},
		Legal: domain.LegalOptions{
			Publisher: s.configStore.GetString(KeyLegalPublisher),
			Edition:   s.configStore.GetString(KeyLegalEdition),
		},
	}, nil
}

// Set validates value for key and stores it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)

	switch kind {
	case kindURL:
		if value != "" {
			u, err := url.Parse(value)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("%w: %s must be an absolute URL", domain.ErrInvalidInput, key)
			}
			value = strings.TrimRight(value, "/")
		}
		return s.configStore.Set(key, value)
	case kindPositiveInt, kindPort:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		if kind == kindPort && n > 65535 {
			return fmt.Errorf("%w: %s must be a valid port", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, n)
	default:
		return s.configStore.Set(key, value)
	}
}

// Value returns the effective value of key as text.
func (s *SettingsService) Value(key string) (string, error) {
	if _, ok := settingKinds[key]; !ok {
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case KeyAPIURL:
		return settings.API.URL, nil
	case KeyAPITimeout:
		return strconv.Itoa(settings.API.TimeoutSeconds), nil
	case KeyAPIRate:
		return strconv.Itoa(settings.API.RatePerSecond), nil
	case KeyAPIBurst:
		return strconv.Itoa(settings.API.Burst), nil
	case KeyOAuthLoginURL:
		return settings.OAuth.LoginURL, nil
	case KeyOAuthPort:
		return strconv.Itoa(settings.OAuth.CallbackPort), nil
	case KeyExportDir:
		return settings.Export.Dir, nil
	case KeyLegalPublisher:
		return settings.Legal.Publisher, nil
	default:
		return settings.Legal.Edition, nil
	}
}

// Keys lists the recognised setting keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}
