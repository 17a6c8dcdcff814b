package synthesizer

import (
	"fmt"
	"strings"
)

// Preview caps: how many items each section shows before eliding the rest.
const (
	graphPreviewRows = 5
	workOrderPreview = 3
	anomalyPreview   = 3
)

// buildContext deterministically formats the upstream agent outputs into
// the bounded text block passed to the generation model. Any subset of the
// three results may be absent or carry an error; each is rendered (or
// skipped) independently.
func buildContext(graphResult, maintenanceResult, sensorResult map[string]interface{}) string {
	var parts []string

	parts = appendGraphSection(parts, graphResult)
	parts = appendMaintenanceSection(parts, maintenanceResult)
	parts = appendSensorSection(parts, sensorResult)

	return strings.Join(parts, "\n")
}

func appendGraphSection(parts []string, graphResult map[string]interface{}) []string {
	if graphResult == nil {
		return parts
	}

	count := intValue(graphResult["result_count"])
	if count == 0 {
		return append(parts, "GRAPH DATA: No results found")
	}

	parts = append(parts, fmt.Sprintf("GRAPH DATA (%d results):", count))
	rows := rowSlice(graphResult["results"])
	for i, row := range rows {
		if i >= graphPreviewRows {
			break
		}
		parts = append(parts, fmt.Sprintf("  %d. %v", i+1, row))
	}
	if count > graphPreviewRows {
		parts = append(parts, fmt.Sprintf("  ... and %d more results", count-graphPreviewRows))
	}
	return parts
}

func appendMaintenanceSection(parts []string, maintenanceResult map[string]interface{}) []string {
	if maintenanceResult == nil {
		return parts
	}

	if errMsg, ok := maintenanceResult["error"].(string); ok && errMsg != "" {
		return append(parts, fmt.Sprintf("\nMAINTENANCE DATA: Unavailable (%s)", errMsg))
	}

	count := intValue(maintenanceResult["work_order_count"])
	if count == 0 {
		return append(parts, "\nMAINTENANCE DATA: No work orders found")
	}

	parts = append(parts, fmt.Sprintf("\nMAINTENANCE DATA (%d work orders):", count))
	orders := rowSlice(maintenanceResult["work_orders"])
	for i, wo := range orders {
		if i >= workOrderPreview {
			break
		}
		parts = append(parts, fmt.Sprintf("  %d. WO#%s: %s",
			i+1, stringValue(wo, "nr", "N/A"), stringValue(wo, "short_description", "No description")))
	}
	if count > workOrderPreview {
		parts = append(parts, fmt.Sprintf("  ... and %d more work orders", count-workOrderPreview))
	}
	return parts
}

func appendSensorSection(parts []string, sensorResult map[string]interface{}) []string {
	if sensorResult == nil {
		return parts
	}

	if errMsg, ok := sensorResult["error"].(string); ok && errMsg != "" {
		return append(parts, fmt.Sprintf("\nSENSOR DATA: Unavailable (%s)", errMsg))
	}

	measurements := rowSlice(sensorResult["measurements"])
	if len(measurements) == 0 {
		return append(parts, "\nSENSOR DATA: No measurements available")
	}

	mockNote := ""
	if mock, _ := sensorResult["mock_data"].(bool); mock {
		mockNote = " [MOCK DATA]"
	}
	parts = append(parts, fmt.Sprintf("\nSENSOR DATA%s (%d measurements):", mockNote, len(measurements)))

	anomalies := rowSlice(sensorResult["anomalies"])
	if len(anomalies) == 0 {
		return append(parts, "  All sensors operating normally")
	}

	parts = append(parts, fmt.Sprintf("  %d anomalies detected:", len(anomalies)))
	for i, anomaly := range anomalies {
		if i >= anomalyPreview {
			break
		}
		parts = append(parts, fmt.Sprintf("    - %s: %s (severity: %s)",
			stringValue(anomaly, "sensor_name", "unknown"),
			stringValue(anomaly, "anomaly_type", "unknown"),
			stringValue(anomaly, "severity", "unknown")))
	}
	return parts
}

func intValue(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func stringValue(m map[string]interface{}, key, fallback string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func rowSlice(v interface{}) []map[string]interface{} {
	switch rows := v.(type) {
	case []map[string]interface{}:
		return rows
	case []interface{}:
		out := make([]map[string]interface{}, 0, len(rows))
		for _, item := range rows {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}
