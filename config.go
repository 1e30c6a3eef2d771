package folio

import "github.com/goliatone/go-folio/internal/runtimeconfig"

var (
	ErrContentDirRequired         = runtimeconfig.ErrContentDirRequired
	ErrContentExtensionInvalid    = runtimeconfig.ErrContentExtensionInvalid
	ErrDiagramLanguageRequired    = runtimeconfig.ErrDiagramLanguageRequired
	ErrDiagramOutputDirRequired   = runtimeconfig.ErrDiagramOutputDirRequired
	ErrDiagramEngineUnknown       = runtimeconfig.ErrDiagramEngineUnknown
	ErrDiagramWorkersInvalid      = runtimeconfig.ErrDiagramWorkersInvalid
	ErrMarkdownExtensionUnknown   = runtimeconfig.ErrMarkdownExtensionUnknown
	ErrGeneratorOutputDirRequired = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	ContentConfig   = runtimeconfig.ContentConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	DiagramsConfig  = runtimeconfig.DiagramsConfig
	GeneratorConfig = runtimeconfig.GeneratorConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
