package notify

import (
	"context"

	"wainbox/internal/metrics"

	"github.com/sirupsen/logrus"
)

// Variant distinguishes success notices from failures in the UI.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a human-readable notice emitted after a mutation.
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant,omitempty"`
}

// Notifier receives fire-and-forget notifications from the conversation
// store. Implementations must not block and must never fail the caller.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// LogNotifier logs notifications as structured entries and counts them.
// It stands in for the toast collaborator of the front-end.
type LogNotifier struct {
	logger *logrus.Logger
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, notification Notification) {
	variant := notification.Variant
	if variant == "" {
		variant = VariantDefault
	}

	metrics.IncrementCounter("notifications_total", map[string]string{
		"variant": string(variant),
	}, "Notifications emitted")

	entry := n.logger.WithFields(logrus.Fields{
		"title":   notification.Title,
		"variant": string(variant),
	})
	if variant == VariantDestructive {
		entry.Warn(notification.Description)
		return
	}
	entry.Info(notification.Description)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) {}
