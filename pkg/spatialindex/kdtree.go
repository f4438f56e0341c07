package spatialindex

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/lintang-b-s/smartmeet/pkg"
	"github.com/lintang-b-s/smartmeet/pkg/geo"
	"github.com/lintang-b-s/smartmeet/pkg/util"
)

type Point interface {
	GetLat() float64
	GetLon() float64
}

const (
	AXIS_LAT uint8 = 0
	AXIS_LON uint8 = 1
)

const noChild int32 = -1

type kdNode[T Point] struct {
	point       T
	axis        uint8
	left, right int32
}

func (n *kdNode[T]) axisValue() float64 {
	if n.axis == AXIS_LAT {
		return n.point.GetLat()
	}
	return n.point.GetLon()
}

// KDTree static 2d tree over lat/lon points. nodes live in one arena slice, children are arena indices.
// immutable after Build, so concurrent searches are safe.
type KDTree[T Point] struct {
	nodes []kdNode[T]
	root  int32

	latMetersPerDegree float64
	lonMetersPerDegree float64
}

type KDTreeOption func(*kdTreeOptions)

type kdTreeOptions struct {
	lonMetersPerDegree float64
}

// WithLonMetersPerDegree overrides the meters per longitude degree used for pruning (85000 by default, ~40°N).
func WithLonMetersPerDegree(m float64) KDTreeOption {
	return func(o *kdTreeOptions) {
		if m > 0 {
			o.lonMetersPerDegree = m
		}
	}
}

func NewKDTree[T Point](opts ...KDTreeOption) *KDTree[T] {
	o := kdTreeOptions{lonMetersPerDegree: pkg.METERS_PER_LNG_DEGREE}
	for _, opt := range opts {
		opt(&o)
	}
	return &KDTree[T]{
		root:               noChild,
		latMetersPerDegree: pkg.METERS_PER_LAT_DEGREE,
		lonMetersPerDegree: o.lonMetersPerDegree,
	}
}

// Build replaces the tree content with points. at depth d the axis is d mod 2, the element at len/2 of the
// subset sorted by that axis becomes the node. equal axis values keep input order.
func (kd *KDTree[T]) Build(points []T) {
	work := make([]T, len(points))
	copy(work, points)

	kd.nodes = make([]kdNode[T], 0, len(points))
	kd.root = kd.build(work, 0)
}

func (kd *KDTree[T]) build(points []T, depth int) int32 {
	if len(points) == 0 {
		return noChild
	}

	axis := uint8(depth % 2)
	slices.SortStableFunc(points, func(a, b T) int {
		if axis == AXIS_LAT {
			return cmp.Compare(a.GetLat(), b.GetLat())
		}
		return cmp.Compare(a.GetLon(), b.GetLon())
	})

	mid := len(points) / 2
	id := int32(len(kd.nodes))
	kd.nodes = append(kd.nodes, kdNode[T]{point: points[mid], axis: axis, left: noChild, right: noChild})

	left := kd.build(points[:mid], depth+1)
	right := kd.build(points[mid+1:], depth+1)
	kd.nodes[id].left = left
	kd.nodes[id].right = right
	return id
}

// SearchNearby returns every point within radius meters (haversine) of center, in traversal order.
func (kd *KDTree[T]) SearchNearby(center geo.Coordinate, radius float64) []T {
	results := make([]T, 0)
	kd.searchNearby(kd.root, center, radius, &results)
	return results
}

func (kd *KDTree[T]) searchNearby(id int32, center geo.Coordinate, radius float64, results *[]T) {
	if id == noChild {
		return
	}
	node := &kd.nodes[id]

	dist := geo.CalculateHaversineDistance(center.GetLat(), center.GetLon(), node.point.GetLat(), node.point.GetLon())
	if dist <= radius {
		*results = append(*results, node.point)
	}

	centerValue, metersPerDegree := center.GetLat(), kd.latMetersPerDegree
	if node.axis == AXIS_LON {
		centerValue, metersPerDegree = center.GetLon(), kd.lonMetersPerDegree
	}
	nodeValue := node.axisValue()
	splitDistance := math.Abs(centerValue-nodeValue) * metersPerDegree

	near, far := node.right, node.left
	if centerValue < nodeValue {
		near, far = node.left, node.right
	}

	kd.searchNearby(near, center, radius, results)
	if splitDistance <= radius {
		kd.searchNearby(far, center, radius, results)
	}
}

// FindNearest approximate nearest point: range searches with growing radii (100 m up to 10 km),
// the closest point of the first non-empty result wins. false when nothing lies within 10 km.
func (kd *KDTree[T]) FindNearest(point geo.Coordinate) (T, bool) {
	var nearest T
	if kd.root == noChild {
		return nearest, false
	}

	for _, radius := range pkg.NEAREST_SEARCH_RADII {
		nearby := kd.SearchNearby(point, radius)
		if len(nearby) == 0 {
			continue
		}

		minDist := pkg.INF_WEIGHT
		for _, p := range nearby {
			dist := geo.CalculateHaversineDistance(point.GetLat(), point.GetLon(), p.GetLat(), p.GetLon())
			if dist < minDist {
				minDist = dist
				nearest = p
			}
		}
		return nearest, true
	}
	return nearest, false
}

func (kd *KDTree[T]) Size() int {
	return len(kd.nodes)
}

// Height number of nodes on the longest root to leaf path, 0 for an empty tree.
func (kd *KDTree[T]) Height() int {
	return kd.height(kd.root)
}

func (kd *KDTree[T]) height(id int32) int {
	if id == noChild {
		return 0
	}
	return 1 + util.MaxG(kd.height(kd.nodes[id].left), kd.height(kd.nodes[id].right))
}

func (kd *KDTree[T]) String() string {
	return fmt.Sprintf("KDTree(size=%d, height=%d)", kd.Size(), kd.Height())
}
