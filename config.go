package writing

import "github.com/goliatone/go-writing/internal/runtimeconfig"

var (
	ErrWritingContentDirRequired = runtimeconfig.ErrWritingContentDirRequired
	ErrWritingPatternInvalid     = runtimeconfig.ErrWritingPatternInvalid
	ErrWritingCategoriesRequired = runtimeconfig.ErrWritingCategoriesRequired
	ErrWritingExtensionUnknown   = runtimeconfig.ErrWritingExtensionUnknown
	ErrEnvironmentUnknown        = runtimeconfig.ErrEnvironmentUnknown
	ErrLoggingProviderRequired   = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
)

const (
	EnvironmentDevelopment = runtimeconfig.EnvironmentDevelopment
	EnvironmentProduction  = runtimeconfig.EnvironmentProduction
	EnvironmentTest        = runtimeconfig.EnvironmentTest
)

type (
	Config        = runtimeconfig.Config
	Features      = runtimeconfig.Features
	WritingConfig = runtimeconfig.WritingConfig
	ParserConfig  = runtimeconfig.ParserConfig
	LoggingConfig = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
