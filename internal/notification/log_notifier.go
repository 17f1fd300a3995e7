package notification

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier is used when no broker is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	l.logger.Info("notification",
		zap.String("type", string(n.Type)),
		zap.String("orderId", n.OrderID),
		zap.String("buyerId", n.BuyerID),
		zap.String("totalPrice", n.TotalPrice.StringFixed(2)),
		zap.Int("items", len(n.Items)))
	return nil
}
