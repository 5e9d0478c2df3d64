package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry configures the global Sentry client. An empty dsn disables reporting.
// The returned func flushes buffered events and is always safe to call.
func InitSentry(dsn, env, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		Release:          release,
		AttachStacktrace: true,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

func CaptureErr(err error) {
	if err != nil {
		sentry.CaptureException(err)
	}
}

// CaptureWithHub reports err on hub when present, falling back to the global hub
func CaptureWithHub(hub *sentry.Hub, err error) {
	if err == nil {
		return
	}
	if hub == nil {
		CaptureErr(err)
		return
	}
	hub.CaptureException(err)
}
