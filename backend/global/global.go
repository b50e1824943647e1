package global

import (
	"github.com/rs/zerolog"
)

// Logger is the process logger. It discards everything until initialize
// configures it.
var Logger = zerolog.Nop()
