package model

import "time"

// User is the VRM account owner. Resolved once per client lifetime.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Installation is one physical monitored site tied to the account.
type Installation struct {
	ID         int64  `json:"id"`
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Timezone   string `json:"timezone"`
}

// BatteryData holds the battery readings of a snapshot. SOC and Voltage are
// nil when the installation reported no sample for the series.
type BatteryData struct {
	Timestamp   time.Time `json:"timestamp"`
	SOC         *float64  `json:"soc,omitempty"`
	Voltage     *float64  `json:"voltage,omitempty"`
	Current     *float64  `json:"current,omitempty"`
	Power       *float64  `json:"power,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// EnergyData is one normalized reading for one installation at a point in
// time. Measurement fields are nil when the series had no sample, never zero.
type EnergyData struct {
	Timestamp    time.Time    `json:"timestamp"`
	Installation Installation `json:"installation"`
	Consumption  *float64     `json:"consumption,omitempty"`
	ACLoad       *float64     `json:"ac_load,omitempty"`
	Grid         *float64     `json:"grid,omitempty"`
	Solar        *float64     `json:"solar,omitempty"`
	Battery      BatteryData  `json:"battery"`
}

func (e EnergyData) Name() string {
	return e.Installation.Name
}

func (e EnergyData) InstallationID() int64 {
	return e.Installation.ID
}

// FleetSummary is the single aggregate record for one collection cycle.
// Sum fields default to zero when no snapshot carries them; averaged battery
// fields stay nil instead.
type FleetSummary struct {
	Timestamp      time.Time `json:"timestamp"`
	Consumption    float64   `json:"consumption"`
	ACLoad         float64   `json:"ac_load"`
	Grid           float64   `json:"grid"`
	Solar          float64   `json:"solar"`
	BatterySOC     *float64  `json:"battery_soc,omitempty"`
	BatteryVoltage *float64  `json:"battery_voltage,omitempty"`
}

// CycleResult is the output of one collection cycle. It does not outlive the
// cycle; publishers receive it and must not retain it.
type CycleResult struct {
	RanAt     time.Time
	Snapshots []EnergyData
	Summary   FleetSummary
}
