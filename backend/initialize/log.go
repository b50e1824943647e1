package initialize

import (
	"io"
	"os"
	"strings"
	"time"

	"blog-cms/backend/global"

	"github.com/rs/zerolog"
)

func init() {
	// console writer to stdout until the config says otherwise
	global.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
}

// SetupLogger replaces the process logger. format is "json" or "console".
func SetupLogger(out io.Writer, level, format string) {
	if !strings.EqualFold(format, "json") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	global.Logger = zerolog.New(out).With().Timestamp().Logger()
	SetLogLevel(level)
}

// SetLogLevel applies level process wide; unknown values fall back to info.
func SetLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		global.Logger.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
