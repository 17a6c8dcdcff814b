package sensor

import (
	"math"
	"strings"
	"time"
)

// mockMeasurements synthesizes hourly readings for each tag. Value range
// and unit are keyed off type-code substrings in the tag, matching the
// conventions of plant instrumentation tags (TI = temperature indicator,
// PI = pressure, LI = level).
func (a *Agent) mockMeasurements(tags []string) []map[string]interface{} {
	measurements := make([]map[string]interface{}, 0, len(tags)*measurementsPerSensor)
	now := a.now()

	for _, tag := range tags {
		for i := 0; i < measurementsPerSensor; i++ {
			timestamp := now.Add(-time.Duration(i) * time.Hour)
			value, unit := a.mockValue(tag)

			quality := "Good"
			if a.randFloat64() <= 0.1 {
				quality = "Uncertain"
			}

			measurements = append(measurements, map[string]interface{}{
				"sensor_name": tag,
				"timestamp":   timestamp.Format(time.RFC3339),
				"value":       value,
				"unit":        unit,
				"quality":     quality,
			})
		}
	}

	return measurements
}

func (a *Agent) mockValue(tag string) (float64, string) {
	upper := strings.ToUpper(tag)

	switch {
	case containsAny(upper, "TEMP", "TI", "TT", "T"):
		return roundTo2(20.0 + a.randFloat64()*60.0), "°C"
	case containsAny(upper, "PRESS", "PI", "PT", "P"):
		return roundTo2(1.0 + a.randFloat64()*9.0), "bar"
	case containsAny(upper, "LEVEL", "LI", "LT", "L"):
		return roundTo2(a.randFloat64() * 100.0), "%"
	default:
		return roundTo2(a.randFloat64() * 100.0), "units"
	}
}

// mockAnomalies flags a random subset of sensors as anomalous, each with a
// category and severity drawn from fixed sets.
func (a *Agent) mockAnomalies(measurements []map[string]interface{}) []map[string]interface{} {
	anomalyTypes := []string{"spike", "drop", "out_of_range"}
	severities := []string{"low", "medium", "high"}

	// latest measurement per sensor, preserving first-seen order
	latest := make(map[string]map[string]interface{})
	var order []string
	for _, m := range measurements {
		name := m["sensor_name"].(string)
		if _, seen := latest[name]; !seen {
			latest[name] = m
			order = append(order, name)
		}
	}

	anomalies := []map[string]interface{}{}
	for _, name := range order {
		if a.randFloat64() >= anomalyProbability {
			continue
		}
		m := latest[name]
		anomalies = append(anomalies, map[string]interface{}{
			"sensor_name":  name,
			"timestamp":    m["timestamp"],
			"value":        m["value"],
			"anomaly_type": anomalyTypes[a.randIntn(len(anomalyTypes))],
			"severity":     severities[a.randIntn(len(severities))],
		})
	}

	return anomalies
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
