package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Options struct {
	Debug   bool
	LogFile string
	// RunID, when set, is attached to every entry as the "run" field.
	RunID string
}

// Configure sets up the standard logrus logger and returns a closer for the
// log file, if one was opened.
func Configure(opts Options) (io.Closer, error) {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if opts.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	hooks := make(logrus.LevelHooks)
	if opts.RunID != "" {
		hooks.Add(fieldHook{key: "run", value: opts.RunID})
	}
	logrus.StandardLogger().ReplaceHooks(hooks)

	if opts.LogFile == "" {
		logrus.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}

	file, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	logrus.SetOutput(file)
	logrus.WithField("file", opts.LogFile).Debug("Logging to file")

	return file, nil
}

// WithHost returns an entry carrying the hostname, used for per-host logs.
func WithHost(hostname string) *logrus.Entry {
	return logrus.WithField("host", hostname)
}

type fieldHook struct {
	key   string
	value string
}

func (h fieldHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h fieldHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data[h.key]; !ok {
		entry.Data[h.key] = h.value
	}
	return nil
}
