package algo

import (
	"container/heap"
	"log"
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/samber/lo"
)

type node[T any] struct {
	p    geometry.Point
	attr T
}

type edge[T any] struct {
	// base为首次调整时捕获的原始边权，未捕获时为NaN
	base float64
	// current为当前边权（可能已按拥堵系数缩放），无边权时为NaN
	current float64
	attr    T
}

type SearchGraph[NT any, ET any] struct {
	// 邻接表，in node -> out node -> edge
	// Runtime期间出边入边结构不变，但边权会被改变，因此需要考虑并发问题
	edges []map[int]edge[ET]
	// 点的位置与属性
	nodes []node[NT]
	// A Star距离预估函数
	h IHeuristics

	mu *xsync.RBMutex
}

type IHeuristics interface {
	HeuristicEuclidean(geometry.Point, geometry.Point) float64
}

func NewSearchGraph[NT any, ET any](h IHeuristics) *SearchGraph[NT, ET] {
	return &SearchGraph[NT, ET]{
		edges: make([]map[int]edge[ET], 0),
		nodes: make([]node[NT], 0),
		h:     h,
		mu:    xsync.NewRBMutex(),
	}
}

func (g *SearchGraph[NT, ET]) InitNode(p geometry.Point, attr NT) int {
	g.nodes = append(g.nodes, node[NT]{p: p, attr: attr})
	g.edges = append(g.edges, make(map[int]edge[ET]))
	return len(g.nodes) - 1
}

// 插入或覆盖一条有向边，length可为NaN表示无边权
func (g *SearchGraph[NT, ET]) InitEdge(from, to int, length float64, attr ET) {
	if from >= len(g.edges) {
		log.Panicf("from node %d >= len(g.edges) %d", from, len(g.edges))
	}
	if to >= len(g.nodes) {
		log.Panicf("to node %d >= len(g.nodes) %d", to, len(g.nodes))
	}
	g.edges[from][to] = edge[ET]{
		base:    math.NaN(),
		current: length,
		attr:    attr,
	}
}

func (g *SearchGraph[NT, ET]) NumNodes() int {
	return len(g.nodes)
}

func (g *SearchGraph[NT, ET]) NumEdges() int {
	n := 0
	for _, out := range g.edges {
		n += len(out)
	}
	return n
}

func (g *SearchGraph[NT, ET]) NodeP(i int) geometry.Point {
	return g.nodes[i].p
}

func (g *SearchGraph[NT, ET]) NodeAttr(i int) NT {
	return g.nodes[i].attr
}

func (g *SearchGraph[NT, ET]) HasEdge(from, to int) bool {
	_, ok := g.edges[from][to]
	return ok
}

func (g *SearchGraph[NT, ET]) GetEdgeLength(from, to int) float64 {
	t := g.mu.RLock()
	defer g.mu.RUnlock(t)
	return g.edges[from][to].current
}

func (g *SearchGraph[NT, ET]) GetEdgeLengthAndAttr(from, to int) (float64, ET) {
	t := g.mu.RLock()
	defer g.mu.RUnlock(t)
	e := g.edges[from][to]
	return e.current, e.attr
}

func (g *SearchGraph[NT, ET]) SetEdgeLength(from, to int, length float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.edges[from][to]
	if !ok {
		return ErrNoEdge
	}
	e.current = length
	g.edges[from][to] = e
	return nil
}

// 按系数缩放所有边权：
// 首次调用时将current捕获为base，此后均以base为基准重新计算，保证幂等。
// current与base均为NaN的边（无边权）跳过。
func (g *SearchGraph[NT, ET]) ScaleEdges(factor float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for from := range g.edges {
		for to, e := range g.edges[from] {
			if math.IsNaN(e.base) {
				if math.IsNaN(e.current) {
					continue
				}
				e.base = e.current
			}
			e.current = e.base * factor
			g.edges[from][to] = e
		}
	}
}

// 结构复制，与原图完全独立（含新锁），节点与边属性按值复制
func (g *SearchGraph[NT, ET]) Clone() *SearchGraph[NT, ET] {
	t := g.mu.RLock()
	defer g.mu.RUnlock(t)
	c := &SearchGraph[NT, ET]{
		edges: make([]map[int]edge[ET], len(g.edges)),
		nodes: make([]node[NT], len(g.nodes)),
		h:     g.h,
		mu:    xsync.NewRBMutex(),
	}
	copy(c.nodes, g.nodes)
	for i, out := range g.edges {
		c.edges[i] = make(map[int]edge[ET], len(out))
		for to, e := range out {
			c.edges[i][to] = e
		}
	}
	return c
}

// 线性扫描求距p最近的节点，空图返回-1
func (g *SearchGraph[NT, ET]) NearestNode(p geometry.Point) int {
	best, bestD := -1, math.Inf(0)
	for i, n := range g.nodes {
		if d := geometry.Distance(p, n.p); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

type PathItem[NT any, ET any] struct {
	NodeAttr NT
	EdgeAttr ET
}

func (g *SearchGraph[NT, ET]) reconstructPath(cameFrom map[int]int, curNode int) ([]PathItem[NT, ET], float64) {
	pathBeforeReversed := []PathItem[NT, ET]{{NodeAttr: g.nodes[curNode].attr}}
	cost := .0
	for {
		if from, ok := cameFrom[curNode]; ok {
			e := g.edges[from][curNode]
			cost += e.current
			curNode = from
			pathBeforeReversed = append(pathBeforeReversed, PathItem[NT, ET]{
				NodeAttr: g.nodes[curNode].attr,
				EdgeAttr: e.attr,
			})
		} else {
			break
		}
	}
	return lo.Reverse(pathBeforeReversed), cost
}

// A Star算法求最短路，不可达时返回(nil, +Inf)
func (g *SearchGraph[NT, ET]) ShortestPath(start, end int) ([]PathItem[NT, ET], float64) {
	token := g.mu.RLock()
	defer g.mu.RUnlock(token)
	if start == end {
		return []PathItem[NT, ET]{{NodeAttr: g.nodes[start].attr}}, 0
	}
	openSet := make(PriorityQueue, 1)
	openSetMap := make(map[int]*Item, 1) // openSet value -> openSet item
	cameFrom := make(map[int]int)
	gScore := make(map[int]float64)
	gScore[start] = .0
	fScore := g.h.HeuristicEuclidean(g.nodes[start].p, g.nodes[end].p)
	openSet[0] = &Item{Value: start, Priority: fScore, Index: 0}
	openSetMap[start] = openSet[0]
	heap.Init(&openSet)
	for openSet.Len() > 0 {
		cur := heap.Pop(&openSet).(*Item).Value
		if cur == end {
			return g.reconstructPath(cameFrom, cur)
		}
		for neighbor, edge := range g.edges[cur] {
			// NaN边权不参与比较，自然排除无边权的边
			gScoreTentative := gScore[cur] + edge.current
			var gScoreNeighbor float64
			s, ok := gScore[neighbor]
			if ok {
				gScoreNeighbor = s
			} else {
				gScoreNeighbor = math.Inf(0)
			}
			if gScoreTentative < gScoreNeighbor {
				cameFrom[neighbor] = cur
				gScore[neighbor] = gScoreTentative
				fScore := gScoreTentative + g.h.HeuristicEuclidean(g.nodes[neighbor].p, g.nodes[end].p)
				if ok {
					// 已经访问过的节点，修改其在heap中的优先级
					openSetMap[neighbor].Priority = fScore
					heap.Fix(&openSet, openSetMap[neighbor].Index)
				} else {
					// 新访问的节点
					item := &Item{Value: neighbor, Priority: fScore}
					heap.Push(&openSet, item)
					openSetMap[neighbor] = item
				}
			}
		}
	}
	return nil, math.Inf(0)
}
