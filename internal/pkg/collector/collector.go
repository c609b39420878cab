package collector

import (
	"context"
	"sync"
	"time"

	"github.com/anicoll/vrm-integration/internal/pkg/model"
	"go.uber.org/zap"
)

type api interface {
	Installations(ctx context.Context) ([]model.Installation, error)
	InstallationStats(ctx context.Context, installation model.Installation) (model.EnergyData, error)
}

// Status describes the outcome of the most recent cycle, exposed by the
// status endpoint.
type Status struct {
	LastRun       time.Time `json:"last_run"`
	LastError     string    `json:"last_error,omitempty"`
	Installations int       `json:"installations"`
}

// Collector runs collection cycles against the VRM API. A cycle is
// all-or-nothing: any fetch failure aborts it without partial results.
type Collector struct {
	api    api
	logger *zap.Logger

	mu     sync.Mutex
	status Status
}

func New(api api) *Collector {
	return &Collector{
		api:    api,
		logger: zap.L(), // returns the global logger.
	}
}

// RunCycle lists the current installations and fetches one snapshot per
// installation in listing order, then aggregates the fleet summary.
func (c *Collector) RunCycle(ctx context.Context) (*model.CycleResult, error) {
	ranAt := time.Now()

	installations, err := c.api.Installations(ctx)
	if err != nil {
		c.recordCycle(ranAt, 0, err)
		return nil, err
	}

	snapshots := make([]model.EnergyData, 0, len(installations))
	for _, installation := range installations {
		snapshot, err := c.api.InstallationStats(ctx, installation)
		if err != nil {
			c.recordCycle(ranAt, len(installations), err)
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	result := &model.CycleResult{
		RanAt:     ranAt,
		Snapshots: snapshots,
		Summary:   Aggregate(snapshots),
	}
	c.recordCycle(ranAt, len(installations), nil)
	c.logger.Debug("collection cycle complete",
		zap.Int("installations", len(installations)),
		zap.Duration("took", time.Since(ranAt)))
	return result, nil
}

func (c *Collector) recordCycle(ranAt time.Time, installations int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = Status{
		LastRun:       ranAt,
		Installations: installations,
	}
	if err != nil {
		c.status.LastError = err.Error()
	}
}

func (c *Collector) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}
