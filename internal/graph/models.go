// Package graph provides the FalkorDB client for the plant topology graph.
//
// The graph holds the plant hierarchy: Plant nodes contain AssetArea nodes,
// which contain Equipment and Sensor nodes. Sensors carry the tag
// identifiers that the maintenance and sensor-data services key off.
package graph

import "time"

// NodeType represents the type of graph node
type NodeType string

const (
	NodeTypePlant     NodeType = "Plant"
	NodeTypeAssetArea NodeType = "AssetArea"
	NodeTypeEquipment NodeType = "Equipment"
	NodeTypeSensor    NodeType = "Sensor"
)

// EdgeType represents the type of graph edge
type EdgeType string

const (
	// EdgeTypeContains links Plant->AssetArea and AssetArea->Equipment
	EdgeTypeContains EdgeType = "CONTAINS"
	// EdgeTypeHasSensor links AssetArea->Sensor and Equipment->Sensor
	EdgeTypeHasSensor EdgeType = "HAS_SENSOR"
)

// GraphQuery represents a Cypher query with parameters
type GraphQuery struct {
	Query      string                 `json:"query"`
	Parameters map[string]interface{} `json:"parameters"`
	Timeout    int                    `json:"timeout,omitempty"` // milliseconds, 0 = default
}

// QueryResult represents the result of a graph query
type QueryResult struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
	Stats   QueryStats      `json:"stats"`
}

// QueryStats represents query execution statistics
type QueryStats struct {
	NodesCreated         int           `json:"nodesCreated"`
	NodesDeleted         int           `json:"nodesDeleted"`
	RelationshipsCreated int           `json:"relationshipsCreated"`
	RelationshipsDeleted int           `json:"relationshipsDeleted"`
	PropertiesSet        int           `json:"propertiesSet"`
	LabelsAdded          int           `json:"labelsAdded"`
	ExecutionTime        time.Duration `json:"executionTime"`
}

// RowMaps converts the columnar result into one map per row, keyed by the
// column name exactly as it appeared in the RETURN clause (e.g. "s.tag").
func (r *QueryResult) RowMaps() []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(r.Rows))
	for _, row := range r.Rows {
		m := make(map[string]interface{}, len(r.Columns))
		for i, col := range r.Columns {
			if i < len(row) {
				m[col] = row[i]
			}
		}
		rows = append(rows, m)
	}
	return rows
}
