package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. Init configures it once at startup.
var Logger = logrus.New()

type requestIDKey struct{}

type appNameHook struct {
	appName string
}

// Levels implements logrus.Hook.
func (h *appNameHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *appNameHook) Fire(entry *logrus.Entry) error {
	entry.Data["app"] = h.appName
	return nil
}

// Init sets output, level and format. Unknown levels fall back to info.
func Init(appName, level, format string) {
	InitWithOutput(appName, level, format, os.Stdout)
}

func InitWithOutput(appName, level, format string, out io.Writer) {
	Logger.SetOutput(out)

	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		Logger.Warnf("invalid LOG_LEVEL %q, defaulting to info", level)
		lvl = logrus.InfoLevel
	}
	Logger.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	Logger.ReplaceHooks(logrus.LevelHooks{})
	Logger.AddHook(&appNameHook{appName: appName})
}

// WithRequestID stores a request id for FromContext.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// FromContext returns an entry tagged with the request id, when there is one.
func FromContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(Logger)
	if rid := RequestID(ctx); rid != "" {
		entry = entry.WithField("request_id", rid)
	}
	return entry
}

// Op returns an entry for a named operation.
func Op(ctx context.Context, operation string) *logrus.Entry {
	return FromContext(ctx).WithField("operation", operation)
}
