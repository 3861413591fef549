package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

// Init configures the global zerolog logger. Console output with level
// coloring when attached to a terminal, plain JSON-ish console otherwise.
func Init(env string) {
	noColor := !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "02.01.2006 15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			level := strings.ToUpper(fmt.Sprintf("%s", i))
			if noColor {
				return level
			}
			switch level {
			case "DEBUG":
				return colorCyan + level + colorReset
			case "INFO":
				return colorBlue + level + colorReset
			case "WARN":
				return colorYellow + level + colorReset
			case "ERROR", "FATAL":
				return colorRed + level + colorReset
			default:
				return level
			}
		},
		FormatFieldName: func(i interface{}) string {
			if noColor {
				return fmt.Sprintf("%s=", i)
			}
			return fmt.Sprintf("%s%s%s=", colorGreen, i, colorReset)
		},
	}

	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Str("env", env).
		Logger()

	switch env {
	case "development":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "production":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
