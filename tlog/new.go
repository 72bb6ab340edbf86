package tlog

import (
	"fmt"
	"testing"
	"time"

	"github.com/ridge/must/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Format is the log format
type Format string

// Log formats
const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Color tells whether text logs are colored
type Color string

// Color settings. ColorAuto colors the logs if stderr is a terminal.
const (
	ColorAuto Color = ""
	ColorYes  Color = "yes"
	ColorNo   Color = "no"
)

// Config describes the top-level logger of a program
type Config struct {
	Name    string // program name, such as "overlayd"
	Format  Format
	Color   Color
	Verbose bool // log every frame and every retry at Debug level
}

// Frames go out every few tens of milliseconds, so log times carry them
func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02T15:04:05.000Z0700"))
}

func newEncoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = timeEncoder
	ec.EncodeDuration = zapcore.StringDurationEncoder
	return ec
}

// New creates a top-level logger writing to stderr
func New(config Config) *zap.Logger {
	encoderConfig := newEncoderConfig()
	encoding := "json"
	development := false

	switch config.Format {
	case FormatJSON:
	case FormatText:
		encoding = "console"
		development = true

		var color bool
		switch config.Color {
		case ColorYes:
			color = true
		case ColorNo:
			color = false
		case ColorAuto:
			color = term.IsTerminal(unix.Stderr)
		default:
			panic(fmt.Errorf("unexpected --color value: %s", config.Color))
		}
		if color {
			encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
	default:
		panic(fmt.Errorf("unexpected --log-format value: %s", config.Format))
	}

	level := zapcore.InfoLevel
	if config.Verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      development,
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	logger := must.OK1(cfg.Build())

	if config.Name != "" {
		logger = logger.Named(config.Name)
	}

	return logger
}

// NewForTesting creates a logger for use in unit tests. Messages go to the
// test log at Debug level.
func NewForTesting(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.Level(zapcore.DebugLevel)).Named(t.Name())
}
