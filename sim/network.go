package sim

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/sim/tramsim/sim/algo"
)

// NodeAttr is the per-node attribute in the search graph.
type NodeAttr struct {
	ID int64 // 外部节点id（如OSM node id）
}

// EdgeAttr is the per-edge attribute in the search graph.
type EdgeAttr struct {
	IsTram bool // 是否为scenario插入的电车边
}

// LatLon is a WGS84 coordinate.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// StopTable maps a stop name to its coordinate.
type StopTable map[string]LatLon

// tram捷径边长可小于两端直线距离，欧氏下界不再可采纳，
// 因此寻路退化为Dijkstra（h=0）
type nullHeuristics struct{}

func (nullHeuristics) HeuristicEuclidean(p1, p2 geometry.Point) float64 {
	return 0
}

// Network is an in-memory weighted road network with undirected semantics,
// modeled as a pair of directed edges with equal weight.
type Network struct {
	g *algo.SearchGraph[NodeAttr, EdgeAttr]
	// 外部id -> graph下标
	index map[int64]int
	// 插入顺序的外部id列表，用于均匀采样
	ids []int64
}

func NewNetwork() *Network {
	return &Network{
		g:     algo.NewSearchGraph[NodeAttr, EdgeAttr](nullHeuristics{}),
		index: make(map[int64]int),
		ids:   make([]int64, 0),
	}
}

func (n *Network) AddNode(id int64, lat, lon float64) {
	if _, ok := n.index[id]; ok {
		log.Warnf("duplicated node id %d, ignored", id)
		return
	}
	// 经度为X，纬度为Y
	n.index[id] = n.g.InitNode(geometry.Point{X: lon, Y: lat}, NodeAttr{ID: id})
	n.ids = append(n.ids, id)
}

// AddEdge inserts the u->v and v->u directed pair. Unknown endpoints are
// skipped with a warning. length may be NaN (no length recorded).
func (n *Network) AddEdge(u, v int64, length float64, isTram bool) {
	ui, ok1 := n.index[u]
	vi, ok2 := n.index[v]
	if !ok1 || !ok2 {
		log.Warnf("edge (%d,%d) references unknown node, skipped", u, v)
		return
	}
	attr := EdgeAttr{IsTram: isTram}
	n.g.InitEdge(ui, vi, length, attr)
	n.g.InitEdge(vi, ui, length, attr)
}

// AddTramEdge inserts the bidirectional tram link u<->v. Each directed slot
// holds one edge, so a shorter incumbent edge is kept: for shortest-path cost
// the min of parallel edges is all that matters, and inserting infrastructure
// must never lengthen an existing connection.
func (n *Network) AddTramEdge(u, v int64, length float64) {
	ui, ok1 := n.index[u]
	vi, ok2 := n.index[v]
	if !ok1 || !ok2 {
		log.Warnf("tram edge (%d,%d) references unknown node, skipped", u, v)
		return
	}
	n.insertTram(ui, vi, length)
	n.insertTram(vi, ui, length)
}

func (n *Network) insertTram(from, to int, length float64) {
	if n.g.HasEdge(from, to) {
		// 无边权（NaN）的既有边不阻挡插入
		if cur := n.g.GetEdgeLength(from, to); cur <= length {
			return
		}
	}
	n.g.InitEdge(from, to, length, EdgeAttr{IsTram: true})
}

func (n *Network) NumNodes() int {
	return len(n.ids)
}

func (n *Network) NumEdges() int {
	return n.g.NumEdges()
}

func (n *Network) HasNode(id int64) bool {
	_, ok := n.index[id]
	return ok
}

// NodeAt returns the i-th node id in insertion order.
func (n *Network) NodeAt(i int) int64 {
	return n.ids[i]
}

func (n *Network) EdgeLength(u, v int64) (float64, bool) {
	ui, ok1 := n.index[u]
	vi, ok2 := n.index[v]
	if !ok1 || !ok2 || !n.g.HasEdge(ui, vi) {
		return 0, false
	}
	return n.g.GetEdgeLength(ui, vi), true
}

func (n *Network) IsTramEdge(u, v int64) bool {
	ui, ok1 := n.index[u]
	vi, ok2 := n.index[v]
	if !ok1 || !ok2 || !n.g.HasEdge(ui, vi) {
		return false
	}
	_, attr := n.g.GetEdgeLengthAndAttr(ui, vi)
	return attr.IsTram
}

// NearestNode returns the node id closest to (lat, lon), false on an empty
// network.
func (n *Network) NearestNode(lat, lon float64) (int64, bool) {
	i := n.g.NearestNode(geometry.Point{X: lon, Y: lat})
	if i < 0 {
		return 0, false
	}
	return n.g.NodeAttr(i).ID, true
}

// Distance returns the shortest-path cost from -> to by current edge length.
// ok为false表示不可达或端点不在图中。
func (n *Network) Distance(from, to int64) (float64, bool) {
	fi, ok1 := n.index[from]
	ti, ok2 := n.index[to]
	if !ok1 || !ok2 {
		return 0, false
	}
	_, cost := n.g.ShortestPath(fi, ti)
	if math.IsInf(cost, 0) || math.IsNaN(cost) {
		return 0, false
	}
	return cost, true
}

// Clone is a structural copy: the scenario pass mutates the clone and must
// never leak back into the baseline.
func (n *Network) Clone() *Network {
	c := &Network{
		g:     n.g.Clone(),
		index: make(map[int64]int, len(n.index)),
		ids:   make([]int64, len(n.ids)),
	}
	for id, i := range n.index {
		c.index[id] = i
	}
	copy(c.ids, n.ids)
	return c
}

func (n *Network) scaleEdges(factor float64) {
	n.g.ScaleEdges(factor)
}
