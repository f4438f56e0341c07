package osmparser

import (
	"context"
	"strings"
	"testing"

	"github.com/lintang-b-s/smartmeet/pkg/engine"
	"github.com/lintang-b-s/smartmeet/pkg/geo"
	"github.com/lintang-b-s/smartmeet/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const campusExtract = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="24.4300" lon="118.0900"/>
  <node id="2" lat="24.4300" lon="118.0910">
    <tag k="name" v="Gate Junction"/>
  </node>
  <node id="3" lat="24.4300" lon="118.0920"/>
  <node id="4" lat="24.4310" lon="118.0920">
    <tag k="name" v="Main Library"/>
    <tag k="amenity" v="library"/>
  </node>
  <node id="5" lat="24.4320" lon="118.0920">
    <tag k="amenity" v="bench"/>
  </node>
  <way id="10">
    <nd ref="1"/>
    <nd ref="2"/>
    <nd ref="3"/>
    <tag k="highway" v="footway"/>
  </way>
  <way id="11">
    <nd ref="3"/>
    <nd ref="4"/>
    <tag k="highway" v="motorway"/>
  </way>
  <way id="12">
    <nd ref="1"/>
    <nd ref="4"/>
    <tag k="highway" v="path"/>
    <tag k="foot" v="no"/>
  </way>
  <way id="13">
    <nd ref="3"/>
    <nd ref="99"/>
    <tag k="highway" v="service"/>
  </way>
  <way id="14">
    <nd ref="2"/>
    <nd ref="1"/>
    <tag k="highway" v="steps"/>
  </way>
</osm>`

func TestCampusParserParse(t *testing.T) {
	p := NewCampusParser("siming", zap.NewNop())
	res, err := p.Parse(context.Background(), strings.NewReader(campusExtract), FORMAT_XML)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Ways)
	assert.Equal(t, 1, res.MissingRefs)

	require.Len(t, res.Nodes, 3)
	ids := []string{*res.Nodes[0].ID, *res.Nodes[1].ID, *res.Nodes[2].ID}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
	assert.Nil(t, res.Nodes[0].Name)
	assert.Equal(t, "Gate Junction", *res.Nodes[1].Name)
	for _, n := range res.Nodes {
		assert.Equal(t, "siming", *n.Campus)
	}

	// way 14 walks 2->1, the same segment way 10 already emitted as 1->2
	require.Len(t, res.Edges, 2)
	want := util.RoundFloat(geo.CalculateHaversineDistance(24.43, 118.09, 24.43, 118.091), 2)
	type pair struct{ from, to string }
	got := make(map[pair]float64)
	for _, e := range res.Edges {
		got[pair{*e.From, *e.To}] = *e.Weight
	}
	assert.Equal(t, map[pair]float64{
		{"1", "2"}: want,
		{"2", "3"}: util.RoundFloat(geo.CalculateHaversineDistance(24.43, 118.091, 24.43, 118.092), 2),
	}, got)
	assert.InDelta(t, 101.3, want, 1.0)

	require.Len(t, res.POIs, 1)
	assert.Equal(t, "Main Library", res.POIs[0].GetString("name"))
	assert.Equal(t, "amenity=library", res.POIs[0].GetString("category"))
	assert.Equal(t, "4", res.POIs[0].GetString("osm_id"))
	assert.Equal(t, "siming", res.POIs[0].GetString("campus"))
}

func TestCampusParserOutputLoadsOneArcPairPerSegment(t *testing.T) {
	res, err := NewCampusParser("siming", zap.NewNop()).Parse(context.Background(), strings.NewReader(campusExtract), FORMAT_XML)
	require.NoError(t, err)

	e := engine.NewEngine(zap.NewNop())
	require.NoError(t, e.LoadRecords(res.Nodes, res.Edges))
	assert.Equal(t, 2, e.EdgeCount())
	assert.Equal(t, 4, e.ArcCount())

	g := e.GetGraph()
	junction, ok := g.GetIndex("2")
	require.True(t, ok)
	assert.Equal(t, 2, g.GetOutDegree(junction))
}

func TestCampusParserUntagged(t *testing.T) {
	res, err := NewCampusParser("", zap.NewNop()).Parse(context.Background(), strings.NewReader(campusExtract), FORMAT_XML)
	require.NoError(t, err)
	for _, n := range res.Nodes {
		assert.Nil(t, n.Campus)
	}
	assert.Empty(t, res.POIs[0].GetString("campus"))
}

func TestCampusParserMalformed(t *testing.T) {
	_, err := NewCampusParser("siming", zap.NewNop()).Parse(context.Background(),
		strings.NewReader(`<osm><node id="1" lat="x"`), FORMAT_XML)
	require.Error(t, err)
	assert.Equal(t, util.ErrBadParamInput, util.ErrorCode(err))
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"campus.osm", FORMAT_XML},
		{"campus.osm.bz2", FORMAT_XML},
		{"CAMPUS.OSM", FORMAT_XML},
		{"campus.osm.pbf", FORMAT_PBF},
		{"campus.pbf", FORMAT_PBF},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFromPath(tt.path))
		})
	}
}
