package logging

import (
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/DeRuina/timberjack"
	"github.com/mynaparrot/speech-translate/pkg/config"
	"github.com/sirupsen/logrus"
)

// NewLogger creates a logger from the log settings. Logs go to stderr so that
// translated segments on stdout stay clean for piping.
func NewLogger(cfg *config.LogSettings) (*logrus.Logger, error) {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg *config.LogSettings, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()

	logLevel := logrus.InfoLevel
	if cfg.LogLevel != nil && *cfg.LogLevel != "" {
		lv, err := logrus.ParseLevel(strings.ToLower(*cfg.LogLevel))
		if err != nil {
			return nil, err
		}
		logLevel = lv
	}
	logger.SetLevel(logLevel)

	output := out
	if cfg.LogFile != "" {
		fileLogger := &timberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
		}
		output = io.MultiWriter(out, fileLogger)
	}
	logger.SetOutput(output)

	logger.SetFormatter(&SourceFormatter{
		Underlying: &logrus.TextFormatter{
			FullTimestamp: true,
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				return "", ""
			},
		},
	})
	logger.SetReportCaller(true)

	return logger, nil
}
