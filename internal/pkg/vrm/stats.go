package vrm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/anicoll/vrm-integration/internal/pkg/model"
)

const statsWindow = 5 * time.Minute

// attributeCodes are the telemetry series requested for every installation.
// bs = battery state of charge, bv = battery voltage.
var attributeCodes = []string{"ac_loads", "from_to_grid", "consumption", "solar_yield", "bs", "bv"}

type statsResponse struct {
	Records map[string]json.RawMessage `json:"records"`
}

// InstallationStats fetches the trailing stats window for one installation
// and normalizes the response into a snapshot.
func (c *Client) InstallationStats(ctx context.Context, installation model.Installation) (model.EnergyData, error) {
	params := url.Values{}
	params.Set("start", strconv.FormatInt(c.now().Add(-statsWindow).Unix(), 10))
	params.Set("type", "custom")
	for i, code := range attributeCodes {
		params.Set(fmt.Sprintf("attributeCodes[%d]", i), code)
	}

	data, err := c.request(ctx, http.MethodGet, fmt.Sprintf("installations/%d/stats", installation.ID), params, nil)
	if err != nil {
		return model.EnergyData{}, err
	}

	statsRes := statsResponse{}
	if err := json.Unmarshal(data, &statsRes); err != nil {
		return model.EnergyData{}, err
	}

	return normalizeStats(installation, statsRes.Records, c.now()), nil
}

// normalizeStats converts a raw stats records map into a snapshot. Each
// series is a list of [timestampMs, value] pairs; the most recent sample
// wins. Series that are missing, empty or undecodable yield absent fields.
func normalizeStats(installation model.Installation, records map[string]json.RawMessage, now time.Time) model.EnergyData {
	series := make(map[string][][]float64, len(records))
	for code, raw := range records {
		pairs := [][]float64{}
		if err := json.Unmarshal(raw, &pairs); err != nil {
			continue
		}
		if len(pairs) > 0 {
			series[code] = pairs
		}
	}

	latestMs := int64(0)
	for _, pairs := range series {
		last := pairs[len(pairs)-1]
		if len(last) > 0 && int64(last[0]) > latestMs {
			latestMs = int64(last[0])
		}
	}
	if latestMs == 0 {
		latestMs = now.UnixMilli()
	}
	timestamp := time.Unix(latestMs/1000, 0)

	return model.EnergyData{
		Timestamp:    timestamp,
		Installation: installation,
		Consumption:  latestValue(series["consumption"]),
		ACLoad:       latestValue(series["ac_loads"]),
		Grid:         latestValue(series["from_to_grid"]),
		Solar:        latestValue(series["solar_yield"]),
		Battery: model.BatteryData{
			Timestamp: timestamp,
			SOC:       latestValue(series["bs"]),
			Voltage:   latestValue(series["bv"]),
		},
	}
}

func latestValue(pairs [][]float64) *float64 {
	if len(pairs) == 0 {
		return nil
	}
	last := pairs[len(pairs)-1]
	if len(last) < 2 {
		return nil
	}
	value := last[1]
	return &value
}
