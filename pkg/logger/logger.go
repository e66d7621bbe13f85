package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init пишет в stderr с уровнем info, чтобы пакеты можно было
// использовать в тестах и утилитах без явной инициализации.
var Log = logrus.New()

// Init настраивает глобальный логгер из окружения.
// Вызывается один раз при старте приложения в main.go.
func Init() {
	// 1. Уровень логирования. По умолчанию "info", для трассировки боя - "debug".
	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// 2. Форматтер: "json" для сбора логов, "text" для разработки.
	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if logFormat == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(os.Stdout)
}

// Silence глушит логгер (тесты, пакетные прогоны поиска).
func Silence() {
	Log.SetOutput(io.Discard)
}

// ForComponent возвращает запись с полем component, как это принято во всех системах.
func ForComponent(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
