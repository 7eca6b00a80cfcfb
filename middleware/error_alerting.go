package middleware

import (
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/slack-go/slack"

	"mcmonitor/core/log"
	"mcmonitor/services"
)

const (
	alertsLedgerKey      = "alerts"
	defaultAlertCooldown = 10 * time.Minute
	alertSendTimeout     = 10 * time.Second
)

type SlackAlertConfig struct {
	WebhookURL  string
	Environment string
	AppName     string
	LogsURL     string
}

// ErrorAlertMiddleware recovers panics and posts deduplicated error alerts to a Slack webhook.
// Deduplication reuses the cooldown ledger keyed by the error fingerprint.
type ErrorAlertMiddleware struct {
	config        SlackAlertConfig
	ledger        services.CooldownLedger
	alertCooldown time.Duration
	pending       sync.WaitGroup
}

func NewErrorAlertMiddleware(config SlackAlertConfig, ledger services.CooldownLedger) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		ledger:        ledger,
		alertCooldown: defaultAlertCooldown, // same error alerts at most once per 10min
	}
}

// HTTPMiddleware wraps HTTP handlers, turning panics into a 500 and an alert
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				m.alertOnPanic(rec, fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// WrapTask wraps a fire-and-forget task, e.g. one submitted to a worker pool
func (m *ErrorAlertMiddleware) WrapTask(taskName string, task func()) func() {
	return func() {
		defer m.recoverAndAlert(fmt.Sprintf("Task: %s", taskName))
		task()
	}
}

// WrapBackgroundTask wraps a long-running task and alerts on its error or panic
func (m *ErrorAlertMiddleware) WrapBackgroundTask(taskName string, task func() error) func() error {
	return func() error {
		defer m.recoverAndAlert(fmt.Sprintf("Background task: %s", taskName))

		if err := task(); err != nil {
			m.alertOnError(context.Background(), err, fmt.Sprintf("Background task: %s", taskName))
			return err
		}
		return nil
	}
}

// ReportError alerts on a failure that was already handled and answered
func (m *ErrorAlertMiddleware) ReportError(ctx context.Context, source string, err error) {
	m.alertOnError(ctx, err, source)
}

// Wait blocks until in-flight alerts were sent
func (m *ErrorAlertMiddleware) Wait() {
	m.pending.Wait()
}

func (m *ErrorAlertMiddleware) alertOnError(ctx context.Context, err error, source string) {
	errorMsg := fmt.Sprintf("%s: %v", source, err)
	fingerprint := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	decision := m.ledger.CheckAndStart(alertsLedgerKey, fingerprint, time.Now(), m.alertCooldown)
	if !decision.Allowed {
		log.Debug("🔍 Skipping duplicate alert", "source", source, "next_alert_at", decision.RetryAt)
		return
	}
	m.sendAsync(context.WithoutCancel(ctx), errorMsg, source)
}

func (m *ErrorAlertMiddleware) recoverAndAlert(source string) {
	if rec := recover(); rec != nil {
		m.alertOnPanic(rec, source)
	}
}

func (m *ErrorAlertMiddleware) alertOnPanic(rec any, source string) {
	errorMsg := fmt.Sprintf("%s: PANIC - %v", source, rec)
	log.Error("❌ Recovered from panic", "source", source, "panic", rec)
	m.sendAsync(context.Background(), errorMsg, source+" (PANIC)")
}

func (m *ErrorAlertMiddleware) sendAsync(ctx context.Context, errorMsg, source string) {
	if m.config.WebhookURL == "" {
		return // Slack alerts disabled
	}

	m.pending.Add(1)
	go func() {
		defer m.pending.Done()
		m.sendSlackAlert(ctx, errorMsg, source)
	}()
}

func (m *ErrorAlertMiddleware) sendSlackAlert(ctx context.Context, errorMsg, source string) {
	ctx, cancel := context.WithTimeout(ctx, alertSendTimeout)
	defer cancel()

	envPrefix := ""
	if m.config.Environment == "dev" {
		envPrefix = "[dev] "
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(
			slack.PlainTextType,
			fmt.Sprintf("🚨 %s[%s] Error Alert", envPrefix, m.config.AppName),
			true,
			false,
		)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Service:* %s", m.config.AppName), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Environment:* %s", m.config.Environment), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Context:* %s", source), false, false),
		}, nil),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Error:*\n```%s```", errorMsg), false, false),
			nil,
			nil,
		),
	}
	if m.config.LogsURL != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("🔗 <%s|View Logs>", m.config.LogsURL), false, false),
			nil,
			nil,
		))
	}

	msg := &slack.WebhookMessage{
		Text:   fmt.Sprintf("%s error alert: %s", m.config.AppName, errorMsg),
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
	if err := slack.PostWebhookContext(ctx, m.config.WebhookURL, msg); err != nil {
		log.Error("❌ Failed to send Slack alert", "error", err)
	}
}
