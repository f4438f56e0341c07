package osmparser

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lintang-b-s/smartmeet/pkg/datastructure"
	"github.com/lintang-b-s/smartmeet/pkg/geo"
	"github.com/lintang-b-s/smartmeet/pkg/util"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"go.uber.org/zap"
)

type Format int

const (
	FORMAT_PBF Format = iota
	FORMAT_XML
)

// FormatFromPath picks the decoder by file name: .osm and .osm.bz2 are xml, everything else pbf.
func FormatFromPath(path string) Format {
	name := strings.TrimSuffix(strings.ToLower(path), ".bz2")
	if strings.HasSuffix(name, ".osm") || strings.HasSuffix(name, ".xml") {
		return FORMAT_XML
	}
	return FORMAT_PBF
}

var (
	// walkable highway types.
	acceptedHighway = map[string]struct{}{
		"footway":        {},
		"path":           {},
		"pedestrian":     {},
		"steps":          {},
		"corridor":       {},
		"cycleway":       {},
		"living_street":  {},
		"residential":    {},
		"service":        {},
		"track":          {},
		"unclassified":   {},
		"tertiary":       {},
		"tertiary_link":  {},
		"secondary":      {},
		"secondary_link": {},
		"primary":        {},
		"primary_link":   {},
		"road":           {},
	}

	// a node carrying a name and one of these keys becomes a poi.
	poiKeys = []string{"amenity", "building", "shop", "tourism", "leisure", "office"}
)

type nodeInfo struct {
	lat  float64
	lon  float64
	name string
}

type CampusParser struct {
	campus string
	log    *zap.Logger

	nodes map[osm.NodeID]nodeInfo
	ways  [][]osm.NodeID
	pois  []datastructure.POI
}

// ParseResult holds the records ready to be written as nodes/edges/pois sources.
type ParseResult struct {
	Nodes []datastructure.NodeRecord
	Edges []datastructure.EdgeRecord
	POIs  []datastructure.POI

	Ways        int
	MissingRefs int
}

func NewCampusParser(campus string, log *zap.Logger) *CampusParser {
	return &CampusParser{
		campus: campus,
		log:    log,
		nodes:  make(map[osm.NodeID]nodeInfo),
	}
}

func (p *CampusParser) Parse(ctx context.Context, r io.Reader, format Format) (*ParseResult, error) {
	var scanner osm.Scanner
	switch format {
	case FORMAT_XML:
		scanner = osmxml.New(ctx, r)
	default:
		scanner = osmpbf.New(ctx, r, 1)
	}
	defer scanner.Close()

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			p.addNode(o)
		case *osm.Way:
			p.addWay(o)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "scan openstreetmap data")
	}

	res := p.build()
	p.log.Info("openstreetmap extract parsed",
		zap.String("campus", p.campus),
		zap.Int("ways", res.Ways),
		zap.Int("nodes", len(res.Nodes)),
		zap.Int("edges", len(res.Edges)),
		zap.Int("pois", len(res.POIs)),
		zap.Int("missing_refs", res.MissingRefs))
	return res, nil
}

func (p *CampusParser) addNode(n *osm.Node) {
	name := n.Tags.Find("name")
	p.nodes[n.ID] = nodeInfo{lat: n.Lat, lon: n.Lon, name: name}

	if name == "" {
		return
	}
	for _, key := range poiKeys {
		val := n.Tags.Find(key)
		if val == "" {
			continue
		}
		attributes := map[string]any{
			"name":     name,
			"osm_id":   strconv.FormatInt(int64(n.ID), 10),
			"category": fmt.Sprintf("%s=%s", key, val),
		}
		if p.campus != "" {
			attributes["campus"] = p.campus
		}
		poi, err := datastructure.NewPOI(n.Lat, n.Lon, attributes)
		if err != nil {
			p.log.Warn("skip poi", zap.Int64("osm_id", int64(n.ID)), zap.Error(err))
			return
		}
		p.pois = append(p.pois, poi)
		return
	}
}

func acceptOsmWay(way *osm.Way) bool {
	if len(way.Nodes) < 2 {
		return false
	}
	if _, ok := acceptedHighway[way.Tags.Find("highway")]; !ok {
		return false
	}
	if way.Tags.Find("foot") == "no" || way.Tags.Find("access") == "no" {
		return false
	}
	return true
}

func (p *CampusParser) addWay(way *osm.Way) {
	if !acceptOsmWay(way) {
		return
	}
	p.ways = append(p.ways, way.Nodes.NodeIDs())
}

// build emits every node referenced by an accepted way, in first-reference order, and one edge record
// per road segment. the loader treats edges as undirected, so oneway tags are ignored.
func (p *CampusParser) build() *ParseResult {
	res := &ParseResult{Ways: len(p.ways), POIs: p.pois}

	emitted := make(map[osm.NodeID]struct{})
	seenEdge := make(map[[2]osm.NodeID]struct{})

	emitNode := func(id osm.NodeID) bool {
		info, ok := p.nodes[id]
		if !ok {
			return false
		}
		if _, done := emitted[id]; done {
			return true
		}
		emitted[id] = struct{}{}
		res.Nodes = append(res.Nodes, datastructure.NewNodeRecord(nodeKey(id), info.lat, info.lon, info.name, p.campus))
		return true
	}

	emitEdge := func(from, to osm.NodeID, weight float64) {
		key := [2]osm.NodeID{min(from, to), max(from, to)}
		if _, ok := seenEdge[key]; ok {
			return
		}
		seenEdge[key] = struct{}{}
		res.Edges = append(res.Edges, datastructure.NewEdgeRecord(nodeKey(from), nodeKey(to), weight))
	}

	for _, way := range p.ways {
		for i := 0; i+1 < len(way); i++ {
			from, to := way[i], way[i+1]
			okFrom, okTo := emitNode(from), emitNode(to)
			if !okFrom || !okTo {
				res.MissingRefs++
				continue
			}
			if from == to {
				continue
			}
			a, b := p.nodes[from], p.nodes[to]
			weight := util.RoundFloat(geo.CalculateHaversineDistance(a.lat, a.lon, b.lat, b.lon), 2)
			emitEdge(from, to, weight)
		}
	}
	return res
}

func nodeKey(id osm.NodeID) string {
	return strconv.FormatInt(int64(id), 10)
}
