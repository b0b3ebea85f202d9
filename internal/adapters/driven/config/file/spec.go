package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

// LoadSpec reads an ebook spec from a TOML (.toml) or YAML (.yaml, .yml)
// file and validates it.
func LoadSpec(path string) (domain.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Spec{}, fmt.Errorf("read spec: %w", err)
	}
	return ParseSpec(data, filepath.Ext(path))
}

// ParseSpec decodes spec data according to ext.
func ParseSpec(data []byte, ext string) (domain.Spec, error) {
	var spec domain.Spec

	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &spec); err != nil {
			return domain.Spec{}, fmt.Errorf("%w: parse toml spec: %v", domain.ErrInvalidInput, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return domain.Spec{}, fmt.Errorf("%w: parse yaml spec: %v", domain.ErrInvalidInput, err)
		}
	default:
		return domain.Spec{}, fmt.Errorf("%w: unsupported spec file type %q", domain.ErrInvalidInput, ext)
	}

	if err := spec.Validate(); err != nil {
		return domain.Spec{}, err
	}
	return spec, nil
}
