package graphagent

// schemaContext describes the plant hierarchy graph to the query
// translation model.
const schemaContext = `You have access to a graph database with the following schema:

NODES:
- Plant: top-level plants (properties: name)
- AssetArea: areas within plants (properties: name, area_code - e.g., "40-10", "75-12")
- Equipment: industrial equipment (properties: equipment_name, equipment_type, sensor_count, source_tags)
- Sensor: measurement devices with properties:
  * tag: sensor tag identifier (e.g., "4010TI371.DACA.PV")
  * description: human-readable description
  * sensor_type_code: type code (e.g., "TI", "PI")
  * unit: measurement unit (e.g., "°C", "bar")
  * area_code: area identifier (e.g., "40-10")
  * classification: sensor classification (e.g., "PROCESS")
  * created_at: timestamp

RELATIONSHIPS:
- (Plant)-[:CONTAINS]->(AssetArea)
- (AssetArea)-[:CONTAINS]->(Equipment)
- (AssetArea)-[:HAS_SENSOR]->(Sensor)
- (Equipment)-[:HAS_SENSOR]->(Sensor)

IMPORTANT PROPERTY ACCESS RULES:
1. Sensor properties are DIRECT properties: use s.tag, s.description, s.unit (NOT s.properties.tag)
2. Equipment properties are NESTED: use e.properties.equipment_name
3. AssetArea and Plant use direct properties: a.name, p.name
4. Always use LIMIT 50 to prevent returning too many results
5. Use RETURN DISTINCT when appropriate to avoid duplicates
6. For counting, use COUNT(DISTINCT n)`

const translationSystemPrompt = "You are a Cypher query expert for graph databases."

// translationPromptTemplate takes the schema context and the user query.
const translationPromptTemplate = `You are an expert at generating Cypher queries.

%s

User Query: %s

Generate a single Cypher query that answers this question. Return ONLY the Cypher query, no explanation.
Do not include markdown code fences (` + "```" + `), just the raw Cypher.

IMPORTANT: For work order/maintenance queries about an area, return the SENSORS in that area.
The maintenance system will use those sensor tags to check for work orders.

Example queries:
- "What sensors are in area 40-10?" → MATCH (a:AssetArea {name: "40-10"})-[:HAS_SENSOR]->(s:Sensor) RETURN s.tag, s.description, s.unit LIMIT 50
- "Are there work orders in area 40-10?" → MATCH (a:AssetArea {name: "40-10"})-[:HAS_SENSOR]->(s:Sensor) RETURN s.tag, s.area_code LIMIT 50
- "Show maintenance for area 40-10" → MATCH (a:AssetArea {name: "40-10"})-[:HAS_SENSOR]->(s:Sensor) RETURN s.tag, s.description LIMIT 50
- "How many equipment items are there?" → MATCH (e:Equipment) RETURN COUNT(DISTINCT e) as equipment_count
- "Show me temperature sensors" → MATCH (s:Sensor) WHERE s.sensor_type_code = 'TI' RETURN s.tag, s.description, s.unit LIMIT 50
- "List equipment in area 40-10" → MATCH (a:AssetArea {name: "40-10"})-[:CONTAINS]->(e:Equipment) RETURN e.properties.equipment_name, e.properties.equipment_type LIMIT 50

Your query:`
