package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	colorRed     = 31
	colorGreen   = 32
	colorYellow  = 33
	colorMagenta = 35

	colorBold = 1
)

func colorize(s interface{}, c int) string {
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}

// New creates a logger based on the ENV environment variable, writing to
// stderr at the given level ("debug", "info", ...). An unknown level falls
// back to info.
func New(level string) zerolog.Logger {
	var l zerolog.Logger
	if IsDevelopment(os.Getenv("ENV")) {
		l = NewDevelopment(os.Stderr)
	} else {
		l = NewProduction(os.Stderr)
	}
	return l.Level(ParseLevel(level))
}

func IsDevelopment(env string) bool {
	return env == "development" || env == "dev" || env == ""
}

func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// NewDevelopment creates a development logger with console output and colors
func NewDevelopment(out io.Writer) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
		FormatLevel: func(i interface{}) string {
			ll, ok := i.(string)
			if !ok {
				return strings.ToUpper(fmt.Sprintf("%s", i))
			}
			switch ll {
			case "trace":
				return colorize("TRC", colorMagenta)
			case "debug":
				return colorize("DBG", colorYellow)
			case "info":
				return colorize("INF", colorGreen)
			case "warn":
				return colorize("WRN", colorRed)
			case "error":
				return colorize("ERR", colorRed)
			case "fatal":
				return colorize("FTL", colorRed)
			case "panic":
				return colorize("PNC", colorRed)
			}
			if len(ll) >= 3 {
				ll = ll[:3]
			}
			return colorize(strings.ToUpper(ll), colorBold)
		},
	}
	return zerolog.New(output).With().Timestamp().Logger()
}

// NewProduction creates a production logger with JSON output and UNIX timestamps
func NewProduction(out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(out).With().Timestamp().Logger()
}
