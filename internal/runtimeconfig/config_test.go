package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-writing/internal/runtimeconfig"
)

func TestConfigValidate_AcceptsDefaults(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_AllowsDisabledWritingWithoutContentDir(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Writing = false
	cfg.Writing.ContentDir = ""
	cfg.Writing.Categories = nil

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_WritingRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "content dir",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Writing.ContentDir = " " },
			want:   runtimeconfig.ErrWritingContentDirRequired,
		},
		{
			name:   "pattern",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Writing.Patterns = []string{"[*.md"} },
			want:   runtimeconfig.ErrWritingPatternInvalid,
		},
		{
			name:   "categories",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Writing.Categories = []string{" "} },
			want:   runtimeconfig.ErrWritingCategoriesRequired,
		},
		{
			name:   "extension",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Writing.Parser.Extensions = []string{"gfm", "mermaid"} },
			want:   runtimeconfig.ErrWritingExtensionUnknown,
		},
		{
			name:   "environment",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Environment = "staging" },
			want:   runtimeconfig.ErrEnvironmentUnknown,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_RequiresLoggingProviderWhenFeatureEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingLevel(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	for _, provider := range []string{"gologger", "zerolog"} {
		cfg := runtimeconfig.DefaultConfig()
		cfg.Features.Logger = true
		cfg.Logging.Provider = provider
		cfg.Logging.Format = "xml"

		err := cfg.Validate()
		if !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
			t.Fatalf("%s: expected ErrLoggingFormatInvalid, got %v", provider, err)
		}
	}
}

func TestConfigValidate_ConsoleIgnoresFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Format = "xml"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigDevelopment(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if cfg.Development() {
		t.Fatal("expected production defaults")
	}
	cfg.Environment = " Development "
	if !cfg.Development() {
		t.Fatal("expected development environment to be detected")
	}
}
