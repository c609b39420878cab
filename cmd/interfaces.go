package cmd

import (
	"context"

	"github.com/anicoll/vrm-integration/internal/pkg/collector"
	"github.com/anicoll/vrm-integration/internal/pkg/model"
)

// collectorService is what cmd.run expects from the collector.
type collectorService interface {
	RunCycle(ctx context.Context) (*model.CycleResult, error)
	Status() collector.Status
}
