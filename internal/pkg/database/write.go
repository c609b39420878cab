package database

import (
	"context"

	"github.com/anicoll/vrm-integration/internal/pkg/model"
)

const insertReadingSQL = `
	INSERT INTO readings (time_stamp, site_id, site_name, consumption, ac_load, grid, solar, battery_soc, battery_voltage)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// Write stores one cycle in a single transaction: a row per snapshot plus
// the fleet summary row, marked by a NULL site_id.
func (db *Database) Write(ctx context.Context, result *model.CycleResult) error {
	tx, err := db.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, snapshot := range result.Snapshots {
		if _, err := tx.Exec(ctx, insertReadingSQL,
			snapshot.Timestamp, snapshot.InstallationID(), snapshot.Name(),
			snapshot.Consumption, snapshot.ACLoad, snapshot.Grid, snapshot.Solar,
			snapshot.Battery.SOC, snapshot.Battery.Voltage); err != nil {
			return err
		}
	}

	summary := result.Summary
	if _, err := tx.Exec(ctx, insertReadingSQL,
		summary.Timestamp, nil, "fleet",
		summary.Consumption, summary.ACLoad, summary.Grid, summary.Solar,
		summary.BatterySOC, summary.BatteryVoltage); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
