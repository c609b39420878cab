package publisher

import (
	"context"
	"errors"

	"github.com/anicoll/vrm-integration/internal/pkg/model"
	"go.uber.org/zap"
)

var errAlreadyRegistered = errors.New("publisher already registered")

var registeredPublishers = make(map[string]publisher)

type publisher interface {
	// Write persists one cycle's snapshots and fleet summary.
	Write(ctx context.Context, result *model.CycleResult) error
}

func RegisterPublisher(name string, publisher publisher) error {
	if _, ok := registeredPublishers[name]; ok {
		return errAlreadyRegistered
	}
	registeredPublishers[name] = publisher
	return nil
}

// Publish fans a cycle result out to every registered sink. A failing sink
// is logged and skipped; it never blocks the others.
func Publish(ctx context.Context, result *model.CycleResult) error {
	for name, publisher := range registeredPublishers {
		if err := publisher.Write(ctx, result); err != nil {
			zap.L().Error("failed to publish cycle result", zap.Error(err), zap.String("publisher", name))
			continue
		}
		zap.L().Debug("published cycle result",
			zap.Int("snapshots", len(result.Snapshots)),
			zap.String("publisher", name))
	}
	return nil
}
