package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LoggerConfig определяет конфигурацию для логгера
type LoggerConfig struct {
	// Формат логов (text/json)
	Format string
	// Уровень логирования (debug, info, warn, error)
	Level string
	// Выходной поток (os.Stdout, файл и т.д.)
	Output io.Writer
	// Включить/выключить цвета для консоли
	EnableColors bool
}

// InitLogger инициализирует и возвращает логгер
func InitLogger(config ...LoggerConfig) *logrus.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}

	var formatter logrus.Formatter
	if cfg.Format == "json" {
		formatter = &logrus.JSONFormatter{}
	} else {
		formatter = &logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   cfg.EnableColors,
			DisableColors: !cfg.EnableColors,
		}
	}

	return &logrus.Logger{
		Out:       cfg.Output,
		Formatter: formatter,
		Hooks:     make(logrus.LevelHooks),
		Level:     level,
	}
}
