package logger

import (
	"fmt"
	"io"
	"os"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/orandin/lumberjackrus"
	"github.com/sirupsen/logrus"
)

// Config is mapped from the [logger] section of the ini file.
type Config struct {
	Level           string
	TimestampFormat string
	NoColors        bool
	FullLevel       bool

	// Log files are written only when FileName is set.
	FileName      string
	ErrorFileName string
	MaxSize       int
	MaxAge        int
	MaxBackups    int
	LocalTime     bool
	Compress      bool
}

func DefaultConfig() *Config {
	return &Config{
		Level:           "info",
		TimestampFormat: "2006-01-02 15:04:05",
		MaxSize:         50,
		MaxAge:          30,
		MaxBackups:      5,
		LocalTime:       true,
	}
}

// New builds a logger writing to stdout and, if configured, to rotating files.
// An unknown level falls back to info.
func New(cfg *Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&nested.Formatter{
		TimestampFormat: cfg.TimestampFormat,
		NoColors:        cfg.NoColors,
		ShowFullLevel:   cfg.FullLevel,
		HideKeys:        false,
		TrimMessages:    true,
	})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("unknown log level %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.FileName == "" {
		return log
	}
	hook, err := newFileHook(cfg, level)
	if err != nil {
		log.Errorln("log file hook:", err)
		return log
	}
	log.AddHook(hook)
	return log
}

func newFileHook(cfg *Config, level logrus.Level) (*lumberjackrus.Hook, error) {
	opts := lumberjackrus.LogFileOpts{}
	if cfg.ErrorFileName != "" {
		opts[logrus.ErrorLevel] = logFile(cfg, cfg.ErrorFileName)
	}
	hook, err := lumberjackrus.NewHook(
		logFile(cfg, cfg.FileName),
		level,
		&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: cfg.TimestampFormat,
			DisableColors:   true,
		},
		&opts,
	)
	if err != nil {
		return nil, fmt.Errorf("create hook for %s: %w", cfg.FileName, err)
	}
	return hook, nil
}

func logFile(cfg *Config, name string) *lumberjackrus.LogFile {
	return &lumberjackrus.LogFile{
		Filename:   name,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  cfg.LocalTime,
		Compress:   cfg.Compress,
	}
}

// Discard returns a logger that drops everything, for tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
