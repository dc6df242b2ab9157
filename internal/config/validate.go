package config

import (
	"fmt"
	"strings"

	"github.com/frherrer/tcgen/internal/domain"
)

const (
	// MinCount and MaxCount bound the number of cases requested.
	MinCount = 1
	MaxCount = 500
	// HardMaxTokens is the largest ceiling a config may set.
	HardMaxTokens = 8000
)

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	// Model validation
	if cfg.Model.ID == "" {
		errs = append(errs, "model.id must not be empty")
	}
	if cfg.Model.Temperature < 0 || cfg.Model.Temperature > 1 {
		errs = append(errs, fmt.Sprintf("model.temperature must be within [0, 1] (got %g)", cfg.Model.Temperature))
	}
	if cfg.Model.MaxTokensCeiling <= 0 || cfg.Model.MaxTokensCeiling > HardMaxTokens {
		errs = append(errs, fmt.Sprintf("model.max_tokens_ceiling must be within [1, %d] (got %d)", HardMaxTokens, cfg.Model.MaxTokensCeiling))
	}

	// Generation validation
	if _, err := domain.ParseFormat(cfg.Generation.Format); err != nil {
		errs = append(errs, fmt.Sprintf("generation.format: %v", err))
	}
	if cfg.Generation.Count < MinCount || cfg.Generation.Count > MaxCount {
		errs = append(errs, fmt.Sprintf("generation.count must be within [%d, %d] (got %d)", MinCount, MaxCount, cfg.Generation.Count))
	}

	// Output validation
	if cfg.Output.Directory == "" {
		errs = append(errs, "output.directory must not be empty")
	}
	validFormats := map[string]bool{"csv": true, "xlsx": true, "txt": true}
	for _, f := range cfg.Output.Formats {
		if !validFormats[f] {
			errs = append(errs, fmt.Sprintf("output.formats entries must be one of: csv, xlsx, txt (got %q)", f))
		}
	}

	if cfg.Server.MaxUploadBytes < 0 {
		errs = append(errs, "server.max_upload_bytes must not be negative")
	}

	// Validate logging level
	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}

	if len(errs) > 0 {
		return domain.NewError(domain.KindConfig, "", fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}
