package influx

import (
	"context"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/anicoll/vrm-integration/internal/pkg/config"
	"github.com/anicoll/vrm-integration/internal/pkg/model"
)

const (
	siteMeasurement  = "vrm_site"
	fleetMeasurement = "vrm_fleet"
)

type service struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

func New(cfg *config.InfluxConfig) *service {
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().SetPrecision(time.Second))
	return &service{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
	}
}

// Write persists the cycle as a single batch: one point per snapshot plus
// exactly one fleet summary point.
func (s *service) Write(ctx context.Context, result *model.CycleResult) error {
	return s.writeAPI.WritePoint(ctx, points(result)...)
}

func points(result *model.CycleResult) []*write.Point {
	pts := make([]*write.Point, 0, len(result.Snapshots)+1)
	for _, snapshot := range result.Snapshots {
		pts = append(pts, snapshotPoint(snapshot))
	}
	return append(pts, summaryPoint(result.Summary))
}

func snapshotPoint(snapshot model.EnergyData) *write.Point {
	point := write.NewPointWithMeasurement(siteMeasurement).
		AddTag("site", snapshot.Name()).
		AddTag("installation_id", strconv.FormatInt(snapshot.InstallationID(), 10)).
		SetTime(snapshot.Timestamp)
	addField(point, "consumption", snapshot.Consumption)
	addField(point, "ac_load", snapshot.ACLoad)
	addField(point, "grid", snapshot.Grid)
	addField(point, "solar", snapshot.Solar)
	addField(point, "battery_soc", snapshot.Battery.SOC)
	addField(point, "battery_voltage", snapshot.Battery.Voltage)
	return point
}

func summaryPoint(summary model.FleetSummary) *write.Point {
	point := write.NewPointWithMeasurement(fleetMeasurement).
		SetTime(summary.Timestamp).
		AddField("consumption", summary.Consumption).
		AddField("ac_load", summary.ACLoad).
		AddField("grid", summary.Grid).
		AddField("solar", summary.Solar)
	addField(point, "battery_soc", summary.BatterySOC)
	addField(point, "battery_voltage", summary.BatteryVoltage)
	return point
}

// addField skips absent values; writing zero instead would be wrong.
func addField(point *write.Point, key string, value *float64) {
	if value == nil {
		return
	}
	point.AddField(key, *value)
}

func (s *service) Close() {
	s.client.Close()
}
