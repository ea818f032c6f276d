package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func init() {
	// Logger selalu siap dipakai, termasuk di dalam test
	InfoLogger = newLogger(os.Stdout, logrus.InfoLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel)
}

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	l.SetLevel(level)
	return l
}

// InitLogger menyiapkan logger. level mengikuti nama level logrus
// ("debug", "info", ...); nilai kosong atau tidak dikenal memakai info.
func InitLogger(level ...string) {
	infoLevel := logrus.InfoLevel
	if len(level) > 0 && level[0] != "" {
		if parsed, err := logrus.ParseLevel(level[0]); err == nil {
			infoLevel = parsed
		}
	}

	InfoLogger = newLogger(os.Stdout, infoLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel)
	if infoLevel > logrus.ErrorLevel {
		ErrorLogger.SetLevel(infoLevel)
	}
}
