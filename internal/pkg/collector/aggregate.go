package collector

import (
	"time"

	"github.com/anicoll/vrm-integration/internal/pkg/model"
)

// Aggregate combines the cycle's snapshots into one fleet summary record.
// Consumption, AC load, grid and solar are summed; battery SOC and voltage
// are averaged. Absent fields are skipped entirely, so they contribute
// neither to a sum nor to an average denominator.
func Aggregate(snapshots []model.EnergyData) model.FleetSummary {
	summary := model.FleetSummary{}

	socSum, socCount := 0.0, 0
	voltageSum, voltageCount := 0.0, 0
	var latest time.Time

	for _, snapshot := range snapshots {
		if snapshot.Timestamp.After(latest) {
			latest = snapshot.Timestamp
		}
		if snapshot.Consumption != nil {
			summary.Consumption += *snapshot.Consumption
		}
		if snapshot.ACLoad != nil {
			summary.ACLoad += *snapshot.ACLoad
		}
		if snapshot.Grid != nil {
			summary.Grid += *snapshot.Grid
		}
		if snapshot.Solar != nil {
			summary.Solar += *snapshot.Solar
		}
		if snapshot.Battery.SOC != nil {
			socSum += *snapshot.Battery.SOC
			socCount++
		}
		if snapshot.Battery.Voltage != nil {
			voltageSum += *snapshot.Battery.Voltage
			voltageCount++
		}
	}

	if latest.IsZero() {
		latest = time.Now()
	}
	summary.Timestamp = latest

	if socCount > 0 {
		soc := socSum / float64(socCount)
		summary.BatterySOC = &soc
	}
	if voltageCount > 0 {
		voltage := voltageSum / float64(voltageCount)
		summary.BatteryVoltage = &voltage
	}

	return summary
}
