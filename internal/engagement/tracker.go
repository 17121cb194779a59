package engagement

import (
	"context"

	"go.uber.org/zap"
)

// Tracker receives analytics identity and flow events.
type Tracker interface {
	SetUser(ctx context.Context, liker string) error
	Event(ctx context.Context, category, action, label string, value int)
}

// LogTracker records analytics through the structured logger.
type LogTracker struct {
	Logger *zap.Logger
}

// SetUser implements Tracker.
func (t LogTracker) SetUser(_ context.Context, liker string) error {
	t.logger().Info("tracker identity", zap.String("liker", liker))
	return nil
}

// Event implements Tracker.
func (t LogTracker) Event(_ context.Context, category, action, label string, value int) {
	t.logger().Info("tracker event",
		zap.String("category", category),
		zap.String("action", action),
		zap.String("label", label),
		zap.Int("value", value))
}

func (t LogTracker) logger() *zap.Logger {
	if t.Logger == nil {
		return zap.NewNop()
	}
	return t.Logger
}

type nopTracker struct{}

func (nopTracker) SetUser(context.Context, string) error             { return nil }
func (nopTracker) Event(context.Context, string, string, string, int) {}
