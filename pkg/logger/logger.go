package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init работает с настройками logrus по умолчанию.
var Log = logrus.New()

// Init инициализирует глобальный логгер из переменных окружения:
//
//	LOG_LEVEL  - уровень logrus, по умолчанию "info"
//	LOG_FORMAT - "json" для продакшена, иначе текст
//	LOG_OUTPUT - "stdout" (по умолчанию), "stderr" или "discard"
//
// Эта функция должна быть вызвана один раз при старте приложения в main.go.
func Init() {
	Log = logrus.New()

	// 1. Уровень логирования. Для отладки можно выставить "debug".
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

	// 3. Куда писать логи.
	Log.SetOutput(outputFromEnv(os.Getenv("LOG_OUTPUT")))
}

// Redirect перенаправляет вывод логов. Нужен терминальному клиенту, чтобы
// логи не ломали отрисовку экрана.
func Redirect(w io.Writer) {
	Log.SetOutput(w)
}

func outputFromEnv(v string) io.Writer {
	switch strings.ToLower(v) {
	case "stderr":
		return os.Stderr
	case "discard", "none":
		return io.Discard
	default:
		return os.Stdout
	}
}
