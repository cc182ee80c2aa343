package geojson

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infrascope/infragraph/pkg/geometry"
	"github.com/infrascope/infragraph/pkg/graph"
	"github.com/infrascope/infragraph/pkg/store"
)

func seedGraph(t *testing.T) (*store.MemStore, *Facade) {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemStore()

	for i, spec := range []struct {
		nodeType, area string
		lon, lat       float64
	}{
		{"water_treatment", "north", 0, 0},
		{"hospital", "north", 1, 1},
		{"hospital", "south", 2, 2},
	} {
		n := graph.NewNode()
		n.Name = "node"
		n.Type = spec.nodeType
		n.Area = spec.area
		n.Location = geometry.Point{Lon: spec.lon, Lat: spec.lat}
		n.SetStatus(graph.StatusStaged)
		_, err := s.CreateNode(ctx, n)
		require.NoError(t, err, "seeding node %d", i)
	}

	return s, NewFacade(s, s)
}

func TestNodesFeatureCollection(t *testing.T) {
	_, facade := seedGraph(t)

	fc, err := facade.NodesFeatureCollection(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 3)

	// serialize and inspect as raw JSON: the served shape is the contract
	raw, err := json.Marshal(fc)
	require.NoError(t, err)

	var decoded struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Features, 3)

	for _, f := range decoded.Features {
		assert.Equal(t, "Feature", f.Type)
		assert.Equal(t, "Point", f.Geometry.Type)
		assert.Len(t, f.Geometry.Coordinates, 2)
		for _, key := range []string{"id", "name", "type", "function", "condition", "last_updated", "status"} {
			assert.Contains(t, f.Properties, key)
		}
	}
}

func TestNodesFeatureCollectionAreaFilter(t *testing.T) {
	_, facade := seedGraph(t)

	fc, err := facade.NodesFeatureCollection(context.Background(), "north")
	require.NoError(t, err)
	assert.Len(t, fc.Features, 2)

	fc, err = facade.NodesFeatureCollection(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Empty(t, fc.Features)
}

func TestEdgesFeatureCollection(t *testing.T) {
	s, facade := seedGraph(t)
	ctx := context.Background()

	e := graph.NewEdge()
	e.FromNodeID = 1
	e.ToNodeID = 2
	e.Sector = "water"
	_, err := s.CreateEdge(ctx, e)
	require.NoError(t, err)

	fc, err := facade.EdgesFeatureCollection(ctx)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)

	raw, err := json.Marshal(fc)
	require.NoError(t, err)

	var decoded struct {
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	f := decoded.Features[0]
	assert.Equal(t, "LineString", f.Geometry.Type)
	for _, key := range []string{"id", "name", "sector", "from_node_id", "to_node_id", "last_updated"} {
		assert.Contains(t, f.Properties, key)
	}

	var stamp string
	require.NoError(t, json.Unmarshal(f.Properties["last_updated"], &stamp))
	_, err = time.Parse(TimestampLayout, stamp)
	assert.NoError(t, err, "last_updated %q must match %q", stamp, TimestampLayout)
}

func TestTimestampAbsentWhenUnset(t *testing.T) {
	e := graph.NewEdge()
	e.ID = 9
	e.Sector = "electricity"

	f := EdgeFeature(e)
	raw, err := json.Marshal(f)
	require.NoError(t, err)

	var decoded struct {
		Properties struct {
			LastUpdated *string `json:"last_updated"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Nil(t, decoded.Properties.LastUpdated)
}

func TestEmptyCollectionSerializesFeaturesArray(t *testing.T) {
	s := store.NewMemStore()
	facade := NewFacade(s, s)

	fc, err := facade.EdgesFeatureCollection(context.Background())
	require.NoError(t, err)

	raw, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(raw))
}
