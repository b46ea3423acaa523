package algo_test

import (
	"math"
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/general/common/v2/mathutil"
	"git.fiblab.net/sim/tramsim/sim/algo"
	"github.com/stretchr/testify/assert"
)

type TestHeuristics struct {
}

func (h TestHeuristics) HeuristicEuclidean(p1 geometry.Point, p2 geometry.Point) float64 {
	return geometry.Distance(p1, p2)
}

func TestSearchGraph(t *testing.T) {
	g := algo.NewSearchGraph[int, int](TestHeuristics{})

	// 初始化点
	n1 := g.InitNode(geometry.Point{X: 0, Y: 0}, 1)
	n2 := g.InitNode(geometry.Point{X: 0, Y: 1}, 2)
	n3 := g.InitNode(geometry.Point{X: 1, Y: 0}, 3)
	n4 := g.InitNode(geometry.Point{X: 1, Y: 1}, 4)

	// 初始化边
	g.InitEdge(n1, n2, 1, 12)
	g.InitEdge(n2, n3, 1, 23)
	g.InitEdge(n3, n4, 1, 34)

	length := g.GetEdgeLength(n1, n2)
	assert.Equal(t, 1.0, length)
	assert.NoError(t, g.SetEdgeLength(n1, n2, 2.0))
	length = g.GetEdgeLength(n1, n2)
	assert.Equal(t, 2.0, length)
	assert.NoError(t, g.SetEdgeLength(n1, n2, 1.0))
	assert.ErrorIs(t, g.SetEdgeLength(n2, n1, 1.0), algo.ErrNoEdge)

	// 计算最短路
	path, cost := g.ShortestPath(n1, n4)
	assert.Len(t, path, 4)
	assert.Equal(t, 1, path[0].NodeAttr)
	assert.Equal(t, 12, path[0].EdgeAttr)
	assert.Equal(t, 2, path[1].NodeAttr)
	assert.Equal(t, 23, path[1].EdgeAttr)
	assert.Equal(t, 3, path[2].NodeAttr)
	assert.Equal(t, 34, path[2].EdgeAttr)
	assert.Equal(t, 4, path[3].NodeAttr)
	assert.Equal(t, 3.0, cost)

	path, cost = g.ShortestPath(n3, n3)
	assert.Len(t, path, 1)
	assert.Equal(t, 3, path[0].NodeAttr)
	assert.Equal(t, 0.0, cost)

	// 加入不可达的点
	n5 := g.InitNode(geometry.Point{X: 2, Y: 2}, 5)
	path, cost = g.ShortestPath(n1, n5)
	assert.Nil(t, path)
	assert.Equal(t, mathutil.INF, cost)
}

func TestSearchGraphDetour(t *testing.T) {
	g := algo.NewSearchGraph[int, int](TestHeuristics{})

	// 初始化点
	n1 := g.InitNode(geometry.Point{X: 0, Y: 0}, 1)
	n2 := g.InitNode(geometry.Point{X: 0, Y: 1}, 2)
	n3 := g.InitNode(geometry.Point{X: 1, Y: 0}, 3)

	// 初始化边
	g.InitEdge(n1, n2, 10, 12)
	g.InitEdge(n1, n3, 2, 13)
	g.InitEdge(n3, n2, 1, 32)

	// 计算最短路
	path, cost := g.ShortestPath(n1, n2)
	assert.Len(t, path, 3)
	assert.Equal(t, 1, path[0].NodeAttr)
	assert.Equal(t, 13, path[0].EdgeAttr)
	assert.Equal(t, 3, path[1].NodeAttr)
	assert.Equal(t, 32, path[1].EdgeAttr)
	assert.Equal(t, 2, path[2].NodeAttr)
	assert.Equal(t, 3.0, cost)
}

func TestScaleEdges(t *testing.T) {
	g := algo.NewSearchGraph[int, int](TestHeuristics{})
	n1 := g.InitNode(geometry.Point{X: 0, Y: 0}, 1)
	n2 := g.InitNode(geometry.Point{X: 0, Y: 1}, 2)
	g.InitEdge(n1, n2, 100, 12)
	// 无边权的边
	g.InitEdge(n2, n1, math.NaN(), 21)

	g.ScaleEdges(1.5)
	assert.Equal(t, 150.0, g.GetEdgeLength(n1, n2))
	// 幂等：重复缩放不叠加
	g.ScaleEdges(1.5)
	assert.Equal(t, 150.0, g.GetEdgeLength(n1, n2))
	// 恢复
	g.ScaleEdges(1.0)
	assert.Equal(t, 100.0, g.GetEdgeLength(n1, n2))
	// 无边权的边不受影响
	assert.True(t, math.IsNaN(g.GetEdgeLength(n2, n1)))
}

func TestClone(t *testing.T) {
	g := algo.NewSearchGraph[int, int](TestHeuristics{})
	n1 := g.InitNode(geometry.Point{X: 0, Y: 0}, 1)
	n2 := g.InitNode(geometry.Point{X: 0, Y: 1}, 2)
	g.InitEdge(n1, n2, 100, 12)

	c := g.Clone()
	assert.Equal(t, g.NumNodes(), c.NumNodes())
	assert.Equal(t, g.NumEdges(), c.NumEdges())

	// 修改复制图不影响原图
	c.InitEdge(n2, n1, 300, 21)
	assert.NoError(t, c.SetEdgeLength(n1, n2, 50))
	assert.Equal(t, 1, g.NumEdges())
	assert.Equal(t, 100.0, g.GetEdgeLength(n1, n2))
	assert.Equal(t, 50.0, c.GetEdgeLength(n1, n2))
}

func TestNearestNode(t *testing.T) {
	g := algo.NewSearchGraph[int, int](TestHeuristics{})
	assert.Equal(t, -1, g.NearestNode(geometry.Point{X: 0, Y: 0}))
	n1 := g.InitNode(geometry.Point{X: 0, Y: 0}, 1)
	n2 := g.InitNode(geometry.Point{X: 10, Y: 10}, 2)
	assert.Equal(t, n1, g.NearestNode(geometry.Point{X: 1, Y: 1}))
	assert.Equal(t, n2, g.NearestNode(geometry.Point{X: 9, Y: 9}))
}
