package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options mengatur level, format dan tujuan output logger aplikasi.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text | json
	File   string // kosong = stdout saja
}

var std = logrus.New()

// Init mengonfigurasi logger global. Aman dipanggil berulang kali.
func Init(o Options) *logrus.Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(o.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if o.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				s := strings.Split(f.Function, ".")
				return s[len(s)-1], fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
			},
		})
	}

	writers := []io.Writer{os.Stdout}
	if o.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     14, // hari
			Compress:   true,
		})
	}
	l.SetOutput(io.MultiWriter(writers...))

	std = l
	logrus.SetLevel(level)
	logrus.SetFormatter(l.Formatter)
	logrus.SetOutput(l.Out)
	return l
}

// L mengembalikan logger global.
func L() *logrus.Logger { return std }

// Named menambahkan field component ke setiap entry.
func Named(component string) *logrus.Entry {
	return std.WithField("component", component)
}

// Discard dipakai di test supaya output tidak berisik.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
