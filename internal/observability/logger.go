package observability

import (
	"github.com/danmuck/cigi/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger sets up the runtime logger and tags it with app. level, when
// recognized, overrides the profile level.
func InitLogger(app, level string) zerolog.Logger {
	logging.ConfigureRuntime()
	logging.SetLevel(level)
	logger := log.Logger.With().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
