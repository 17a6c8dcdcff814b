package graph

import "context"

// InitializeSchema creates the indexes used by generated plant queries.
// Index creation is idempotent from our perspective: FalkorDB errors on
// an existing index, which is logged and skipped.
func (c *falkorClient) InitializeSchema(ctx context.Context) error {
	c.logger.Info("Initializing plant graph schema (graph: %s)", c.config.GraphName)

	indexes := []string{
		"CREATE INDEX FOR (s:Sensor) ON (s.tag)",
		"CREATE INDEX FOR (s:Sensor) ON (s.area_code)",
		"CREATE INDEX FOR (s:Sensor) ON (s.sensor_type_code)",
		"CREATE INDEX FOR (a:AssetArea) ON (a.name)",
		"CREATE INDEX FOR (e:Equipment) ON (e.equipment_name)",
		"CREATE INDEX FOR (p:Plant) ON (p.name)",
	}

	for _, indexQuery := range indexes {
		if _, err := c.ExecuteQuery(ctx, GraphQuery{Query: indexQuery}); err != nil {
			c.logger.Warn("Failed to create index (may already exist): %v", err)
		}
	}

	c.logger.Info("Schema initialization complete")
	return nil
}
