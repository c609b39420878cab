package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/vrm-integration/internal/pkg/model"
)

type fakeAPI struct {
	installations []model.Installation
	statsErr      map[int64]error
}

func (f *fakeAPI) Installations(ctx context.Context) ([]model.Installation, error) {
	return f.installations, nil
}

func (f *fakeAPI) InstallationStats(ctx context.Context, installation model.Installation) (model.EnergyData, error) {
	if err := f.statsErr[installation.ID]; err != nil {
		return model.EnergyData{}, err
	}
	return model.EnergyData{
		Timestamp:    time.Now(),
		Installation: installation,
		Consumption:  lo.ToPtr(float64(installation.ID)),
	}, nil
}

func TestRunCycle_PreservesDirectoryOrder(t *testing.T) {
	api := &fakeAPI{installations: []model.Installation{
		{ID: 3, Name: "c"},
		{ID: 1, Name: "a"},
		{ID: 2, Name: "b"},
	}}
	c := New(api)

	result, err := c.RunCycle(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Snapshots, 3)
	assert.Equal(t, int64(3), result.Snapshots[0].InstallationID())
	assert.Equal(t, int64(1), result.Snapshots[1].InstallationID())
	assert.Equal(t, int64(2), result.Snapshots[2].InstallationID())
	assert.InDelta(t, 6.0, result.Summary.Consumption, 1e-9)
}

func TestRunCycle_AbortsOnSingleFailure(t *testing.T) {
	statsErr := errors.New("stats fetch failed")
	api := &fakeAPI{
		installations: []model.Installation{{ID: 1}, {ID: 2}, {ID: 3}},
		statsErr:      map[int64]error{2: statsErr},
	}
	c := New(api)

	result, err := c.RunCycle(context.Background())
	assert.ErrorIs(t, err, statsErr)
	assert.Nil(t, result, "a failed cycle yields no partial result")

	status := c.Status()
	assert.Equal(t, statsErr.Error(), status.LastError)
	assert.Equal(t, 3, status.Installations)
}

func TestRunCycle_EmptyDirectory(t *testing.T) {
	c := New(&fakeAPI{})

	result, err := c.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Snapshots)
	assert.Zero(t, result.Summary.Consumption)
	assert.Nil(t, result.Summary.BatterySOC)
}

func TestStatus_TracksLastSuccessfulCycle(t *testing.T) {
	c := New(&fakeAPI{installations: []model.Installation{{ID: 1}}})

	_, err := c.RunCycle(context.Background())
	require.NoError(t, err)

	status := c.Status()
	assert.Empty(t, status.LastError)
	assert.Equal(t, 1, status.Installations)
	assert.WithinDuration(t, time.Now(), status.LastRun, 2*time.Second)
}
