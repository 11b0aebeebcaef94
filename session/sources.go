package session

import (
	"smoothie-order/config"

	"go.uber.org/zap"
)

// SourcesFromConfig baut die Quellen in der Reihenfolge aus SESSION_SOURCES.
// Unbekannte Namen werden protokolliert und übersprungen.
func SourcesFromConfig(cfg *config.Config, logger *zap.Logger) []Source {
	var sources []Source
	for _, name := range cfg.SessionSourceNames() {
		switch name {
		case "ambient":
			sources = append(sources, NewAmbientSource(cfg.AmbientDSNEnv))
		case "configured":
			sources = append(sources, NewConfiguredSource(cfg))
		default:
			logger.Warn("Unknown session source in config", zap.String("source_name", name))
		}
	}
	return sources
}
