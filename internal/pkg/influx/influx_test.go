package influx

import (
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/vrm-integration/internal/pkg/model"
)

func fieldsOf(point *write.Point) map[string]any {
	fields := map[string]any{}
	for _, field := range point.FieldList() {
		fields[field.Key] = field.Value
	}
	return fields
}

func tagsOf(point *write.Point) map[string]string {
	tags := map[string]string{}
	for _, tag := range point.TagList() {
		tags[tag.Key] = tag.Value
	}
	return tags
}

func TestPoints_OnePerSnapshotPlusSummary(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	result := &model.CycleResult{
		Snapshots: []model.EnergyData{
			{
				Timestamp:    ts,
				Installation: model.Installation{ID: 101, Name: "Home"},
				Consumption:  lo.ToPtr(2.5),
				Battery:      model.BatteryData{Timestamp: ts, SOC: lo.ToPtr(85.0)},
			},
			{
				Timestamp:    ts,
				Installation: model.Installation{ID: 102, Name: "Cabin"},
				Consumption:  lo.ToPtr(1.5),
				Battery:      model.BatteryData{Timestamp: ts, SOC: lo.ToPtr(92.0)},
			},
		},
		Summary: model.FleetSummary{
			Timestamp:   ts,
			Consumption: 4.0,
			BatterySOC:  lo.ToPtr(88.5),
		},
	}

	pts := points(result)
	require.Len(t, pts, 3, "expected one point per snapshot plus the fleet summary")

	first := pts[0]
	assert.Equal(t, "vrm_site", first.Name())
	assert.Equal(t, map[string]string{"site": "Home", "installation_id": "101"}, tagsOf(first))
	assert.Equal(t, 2.5, fieldsOf(first)["consumption"])
	assert.Equal(t, ts, first.Time())

	summary := pts[2]
	assert.Equal(t, "vrm_fleet", summary.Name())
	assert.Empty(t, tagsOf(summary))
	fields := fieldsOf(summary)
	assert.Equal(t, 4.0, fields["consumption"])
	assert.Equal(t, 88.5, fields["battery_soc"])
	assert.NotContains(t, fields, "battery_voltage")
}

func TestSnapshotPoint_OmitsAbsentFields(t *testing.T) {
	snapshot := model.EnergyData{
		Timestamp:    time.Unix(1700000000, 0),
		Installation: model.Installation{ID: 101, Name: "Home"},
		Grid:         lo.ToPtr(-0.3),
	}

	fields := fieldsOf(snapshotPoint(snapshot))
	assert.Equal(t, map[string]any{"grid": -0.3}, fields)
}

func TestSummaryPoint_SumFieldsAlwaysPresent(t *testing.T) {
	fields := fieldsOf(summaryPoint(model.FleetSummary{Timestamp: time.Unix(1700000000, 0)}))
	assert.Equal(t, 0.0, fields["consumption"])
	assert.Equal(t, 0.0, fields["ac_load"])
	assert.Equal(t, 0.0, fields["grid"])
	assert.Equal(t, 0.0, fields["solar"])
	assert.NotContains(t, fields, "battery_soc")
	assert.NotContains(t, fields, "battery_voltage")
}
