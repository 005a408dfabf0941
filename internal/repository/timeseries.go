package repository

import (
	"context"
	"fmt"
	"strings"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"go.uber.org/zap"

	"askbuilding/internal/config"
	"askbuilding/internal/model"
	"askbuilding/internal/utils"
)

// TimeSeriesRepository handles InfluxDB queries: verbatim Flux from the
// router and the combined latest-value lookup for zone metrics.
type TimeSeriesRepository struct {
	client   influxdb2.Client
	queryAPI api.QueryAPI
	bucket   string
	log      *zap.SugaredLogger
}

// NewTimeSeriesRepository creates an InfluxDB client. The connection is lazy;
// the first query surfaces connectivity problems.
func NewTimeSeriesRepository(cfg *config.InfluxConfig, log *zap.SugaredLogger) *TimeSeriesRepository {
	client := influxdb2.NewClient(cfg.Host, cfg.Token)
	return &TimeSeriesRepository{
		client:   client,
		queryAPI: client.QueryAPI(cfg.Org),
		bucket:   cfg.Bucket,
		log:      log,
	}
}

// Close shuts down the client.
func (r *TimeSeriesRepository) Close() {
	r.client.Close()
}

// Bucket returns the configured bucket name, used by the prompt builder for
// bucket-placeholder substitution.
func (r *TimeSeriesRepository) Bucket() string {
	return r.bucket
}

// Run executes arbitrary Flux text verbatim and returns flattened rows. Like
// GraphRepository.Run, the text is generated output and is not validated; the
// execution is logged at this boundary.
func (r *TimeSeriesRepository) Run(ctx context.Context, flux string) ([]map[string]any, error) {
	r.log.Warnw("executing unvalidated generated query", "dialect", "flux",
		"query", utils.TruncateString(flux, 300))

	result, err := r.queryAPI.Query(ctx, flux)
	if err != nil {
		return nil, fmt.Errorf("time-series query failed: %w", err)
	}
	var rows []map[string]any
	for result.Next() {
		rec := result.Record()
		row := make(map[string]any, len(rec.Values()))
		for k, v := range rec.Values() {
			if k == "_time" {
				continue
			}
			row[k] = v
		}
		row["_time"] = rec.Time()
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("time-series query failed: %w", err)
	}
	return rows, nil
}

// supportedRanges whitelists the time-range tokens the toolkit understands.
var supportedRanges = map[string]string{
	"1h":  "-1h",
	"6h":  "-6h",
	"12h": "-12h",
	"24h": "-24h",
	"48h": "-48h",
	"7d":  "-7d",
	"30d": "-30d",
}

// ResolveRange maps a user-supplied time-range token to a Flux range start.
// Unsupported tokens silently fall back to the default window.
func ResolveRange(token, fallback string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	t = strings.TrimPrefix(t, "-")
	t = strings.TrimPrefix(t, "last ")
	t = strings.TrimPrefix(t, "last")
	if start, ok := supportedRanges[strings.TrimSpace(t)]; ok {
		return start
	}
	if start, ok := supportedRanges[fallback]; ok {
		return start
	}
	return "-24h"
}

// LatestBySensor fetches the most recent value for each sensor within the
// range, in one combined filter query rather than per-sensor calls. Sensors
// with no recent value are simply absent from the result map.
func (r *TimeSeriesRepository) LatestBySensor(ctx context.Context, sensorIDs []string, rangeToken, defaultRange string) (map[string]model.SensorReading, error) {
	if len(sensorIDs) == 0 {
		return map[string]model.SensorReading{}, nil
	}

	filters := make([]string, 0, len(sensorIDs))
	for _, id := range sensorIDs {
		// Sensor ids come from the local config file, not the model, but
		// they still land inside query text: strip the one character that
		// would break out of the string literal.
		clean := strings.ReplaceAll(id, `"`, "")
		filters = append(filters, fmt.Sprintf(`r.sensor_id == "%s"`, clean))
	}

	flux := fmt.Sprintf(`from(bucket: "%s")
  |> range(start: %s)
  |> filter(fn: (r) => %s)
  |> last()`,
		r.bucket, ResolveRange(rangeToken, defaultRange), strings.Join(filters, " or "))

	result, err := r.queryAPI.Query(ctx, flux)
	if err != nil {
		return nil, fmt.Errorf("time-series query failed: %w", err)
	}

	readings := make(map[string]model.SensorReading)
	for result.Next() {
		rec := result.Record()
		sensorID, _ := rec.ValueByKey("sensor_id").(string)
		if sensorID == "" {
			continue
		}
		reading := model.SensorReading{
			SensorID: sensorID,
			Field:    rec.Field(),
			Value:    rec.Value(),
			Time:     rec.Time(),
		}
		// last() emits one row per series; keep the newest when a sensor
		// reports multiple fields.
		if prev, ok := readings[sensorID]; !ok || reading.Time.After(prev.Time) {
			readings[sensorID] = reading
		}
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("time-series query failed: %w", err)
	}
	return readings, nil
}
