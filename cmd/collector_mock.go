package cmd

import (
	"context"

	"github.com/anicoll/vrm-integration/internal/pkg/collector"
	"github.com/anicoll/vrm-integration/internal/pkg/model"
)

// MockCollectorService is a mock implementation of the collectorService interface.
type MockCollectorService struct {
	RunCycleFunc func(ctx context.Context) (*model.CycleResult, error)
	StatusFunc   func() collector.Status
}

func (m *MockCollectorService) RunCycle(ctx context.Context) (*model.CycleResult, error) {
	if m.RunCycleFunc != nil {
		return m.RunCycleFunc(ctx)
	}
	return &model.CycleResult{}, nil
}

func (m *MockCollectorService) Status() collector.Status {
	if m.StatusFunc != nil {
		return m.StatusFunc()
	}
	return collector.Status{}
}
