package observe

import (
	"encoding/json"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"solar-resource-api/pkg/logger"
)

const (
	_sentryMaxErrorDepth        int           = 9
	_sentryFlushTimeout         time.Duration = 5 * time.Second
	_sentryServerRequestTimeout time.Duration = 5 * time.Second
)

// SentryHook is an io.Writer attached to the zap stream. It forwards
// error-level entries to Sentry and passes everything else through.
type SentryHook struct {
	appZone string
	appName string
	l       *logger.Logger
}

func NewSentryHook(appZone, appName, dsn string, isDebug bool) *SentryHook {
	if dsn == "" {
		log.Println("sentry init skipped: no DSN")
		return &SentryHook{appZone: appZone, appName: appName}
	}

	transport := sentry.NewHTTPTransport()
	transport.Timeout = _sentryServerRequestTimeout

	if err := sentry.Init(sentry.ClientOptions{
		AttachStacktrace: true,
		Debug:            isDebug,
		Dsn:              dsn,
		Environment:      appZone,
		MaxErrorDepth:    _sentryMaxErrorDepth,
		ServerName:       appName,
		Transport:        transport,
	}); err != nil {
		log.Println("sentry init error:", err.Error())
	}

	return &SentryHook{appZone: appZone, appName: appName}
}

func (h *SentryHook) SetLogger(l *logger.Logger) {
	if l != nil {
		h.l = l
	}
}

// Flush drains buffered events on shutdown.
func (h *SentryHook) Flush() {
	sentry.Flush(_sentryFlushTimeout)
}

func (*SentryHook) mapLevel(zl zapcore.Level) sentry.Level {
	switch zl {
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	case zapcore.FatalLevel, zapcore.PanicLevel:
		return sentry.LevelFatal
	}
	return sentry.LevelDebug
}

func (h *SentryHook) Write(p []byte) (n int, err error) {
	if h.appZone != "production" && h.appZone != "staging" {
		return len(p), nil
	}

	type entry struct {
		Level      string `json:"level"`
		AppName    string `json:"app_name"`
		AppZone    string `json:"app_zone"`
		CallerFile string `json:"caller_file"`
		CallerLine int    `json:"caller_line"`
		CallerFunc string `json:"caller_func"`
		Stack      string `json:"stack"`
		Message    string `json:"msg"`
		Error      string `json:"error"`
		Timestamp  string `json:"timestamp"`
	}

	var e entry
	if err := json.Unmarshal(p, &e); err != nil {
		h.report(errors.Wrap(err, "[SentryHook] unmarshal log entry"))
		return len(p), nil
	}

	level, err := zapcore.ParseLevel(e.Level)
	if err != nil || len(e.Message) == 0 {
		if err != nil {
			h.report(errors.Wrap(err, "[SentryHook] parse zap level"))
		}
		return len(p), nil
	}

	switch level {
	case zapcore.ErrorLevel, zapcore.FatalLevel, zapcore.PanicLevel:
		event := sentry.NewEvent()
		event.Environment = h.appZone
		event.Level = h.mapLevel(level)
		event.Message = e.Message
		if ts, err := time.Parse("2006-01-02T15:04:05.000Z0700", e.Timestamp); err == nil {
			event.Timestamp = ts
		}
		event.Extra["AppName"] = h.appName
		event.Extra["Error"] = e.Error
		event.Extra["CallerFile"] = e.CallerFile
		event.Extra["CallerLine"] = e.CallerLine
		event.Extra["CallerFunc"] = e.CallerFunc
		event.Extra["Stack"] = e.Stack
		event.Exception = append(event.Exception, sentry.Exception{
			Type:       e.Message,
			Value:      e.Error,
			Stacktrace: sentry.NewStacktrace(),
		})
		sentry.CaptureEvent(event)
	}

	return len(p), nil
}

func (h *SentryHook) report(err error) {
	if h.l != nil {
		h.l.Error(err)
		return
	}
	log.Println(err.Error())
}
