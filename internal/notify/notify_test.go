package notify

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogNotifier_Notify(t *testing.T) {
	logger, hook := test.NewNullLogger()
	n := NewLogNotifier(logger)

	n.Notify(context.Background(), Notification{
		Title:       "Message sent",
		Description: "Message to Sarah sent",
	})

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "Message to Sarah sent", entry.Message)
	assert.Equal(t, "Message sent", entry.Data["title"])
	assert.Equal(t, string(VariantDefault), entry.Data["variant"])
}

func TestLogNotifier_DestructiveLogsAsWarning(t *testing.T) {
	logger, hook := test.NewNullLogger()
	n := NewLogNotifier(logger)

	n.Notify(context.Background(), Notification{
		Title:       "Send failed",
		Description: "Could not reach contact",
		Variant:     VariantDestructive,
	})

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestNopNotifier(t *testing.T) {
	// Must be safe with any input.
	NopNotifier{}.Notify(context.Background(), Notification{})
	NopNotifier{}.Notify(nil, Notification{Title: "x"}) //nolint:staticcheck
}
