package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/plantquery/internal/logging"
)

func newTestCache(t *testing.T, ttl time.Duration) *QueryCache {
	t.Helper()
	qc, err := NewQueryCache(QueryCacheConfig{MaxMemoryMB: 1, TTL: ttl, Enabled: true}, logging.GetLogger("test"))
	require.NoError(t, err)
	return qc
}

func TestQueryCachePutGet(t *testing.T) {
	qc := newTestCache(t, time.Minute)

	result := &QueryResult{
		Columns: []string{"s.tag"},
		Rows:    [][]interface{}{{"4010TI371.DACA.PV"}},
	}
	key := MakeQueryKey(GraphQuery{Query: "MATCH (s:Sensor) RETURN s.tag"})

	_, ok := qc.Get(key)
	assert.False(t, ok)

	qc.Put(key, result)

	got, ok := qc.Get(key)
	require.True(t, ok)
	assert.Equal(t, result.Rows, got.Rows)

	stats := qc.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Items)
}

func TestQueryCacheTTLExpiry(t *testing.T) {
	qc := newTestCache(t, time.Nanosecond)

	key := MakeQueryKey(GraphQuery{Query: "MATCH (n) RETURN n"})
	qc.Put(key, &QueryResult{})

	time.Sleep(time.Millisecond)

	_, ok := qc.Get(key)
	assert.False(t, ok)
}

func TestQueryCacheInvalidConfig(t *testing.T) {
	_, err := NewQueryCache(QueryCacheConfig{MaxMemoryMB: 0, TTL: time.Minute}, logging.GetLogger("test"))
	assert.Error(t, err)

	_, err = NewQueryCache(QueryCacheConfig{MaxMemoryMB: 1, TTL: 0}, logging.GetLogger("test"))
	assert.Error(t, err)
}

func TestMakeQueryKeyDeterministic(t *testing.T) {
	q1 := GraphQuery{
		Query:      "MATCH (a:AssetArea {name: $name}) RETURN a",
		Parameters: map[string]interface{}{"name": "40-10", "limit": 50},
	}
	q2 := GraphQuery{
		Query:      "MATCH (a:AssetArea {name: $name}) RETURN a",
		Parameters: map[string]interface{}{"limit": 50, "name": "40-10"},
	}

	assert.Equal(t, MakeQueryKey(q1), MakeQueryKey(q2))

	q3 := q1
	q3.Parameters = map[string]interface{}{"name": "75-12", "limit": 50}
	assert.NotEqual(t, MakeQueryKey(q1), MakeQueryKey(q3))
}

func TestIsWriteQuery(t *testing.T) {
	assert.True(t, isWriteQuery("CREATE (n:Sensor {tag: 'x'})"))
	assert.True(t, isWriteQuery("MATCH (n) DETACH DELETE n"))
	assert.True(t, isWriteQuery("  merge (n:Plant {name: 'S-Plant'})"))
	assert.False(t, isWriteQuery("MATCH (s:Sensor) RETURN s.tag LIMIT 50"))
}

func TestRowMaps(t *testing.T) {
	qr := &QueryResult{
		Columns: []string{"s.tag", "s.unit"},
		Rows: [][]interface{}{
			{"4010TI371.DACA.PV", "°C"},
			{"4010PI100.DACA.PV", "bar"},
		},
	}

	rows := qr.RowMaps()
	require.Len(t, rows, 2)
	assert.Equal(t, "4010TI371.DACA.PV", rows[0]["s.tag"])
	assert.Equal(t, "bar", rows[1]["s.unit"])
}
