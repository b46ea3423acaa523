package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkBasics(t *testing.T) {
	n := NewNetwork()
	assert.Equal(t, 0, n.NumNodes())
	n.AddNode(10, 50.72, -1.88)
	n.AddNode(20, 50.73, -1.87)
	// 重复id忽略
	n.AddNode(10, 0, 0)
	assert.Equal(t, 2, n.NumNodes())

	n.AddEdge(10, 20, 100, false)
	// 未知端点的边跳过
	n.AddEdge(10, 999, 100, false)
	assert.Equal(t, 2, n.NumEdges())

	l, ok := n.EdgeLength(10, 20)
	assert.True(t, ok)
	assert.Equal(t, 100.0, l)
	_, ok = n.EdgeLength(10, 999)
	assert.False(t, ok)
}

func TestNetworkDistance(t *testing.T) {
	n := newLineNetwork(t)
	d, ok := n.Distance(1, 4)
	assert.True(t, ok)
	assert.Equal(t, 3000.0, d)
	d, ok = n.Distance(3, 3)
	assert.True(t, ok)
	assert.Equal(t, 0.0, d)

	// 孤立节点不可达
	n.AddNode(99, 1, 1)
	_, ok = n.Distance(99, 1)
	assert.False(t, ok)
	// 不在图中的端点
	_, ok = n.Distance(1, 12345)
	assert.False(t, ok)
}

func TestNetworkCloneIsolation(t *testing.T) {
	n := newLineNetwork(t)
	c := n.Clone()
	c.AddEdge(1, 4, 300, true)

	assert.Equal(t, n.NumEdges()+2, c.NumEdges())
	_, ok := n.EdgeLength(1, 4)
	assert.False(t, ok)
	assert.False(t, n.IsTramEdge(1, 4))
	assert.True(t, c.IsTramEdge(1, 4))

	// 副本上的traffic调整不影响原图
	AdjustForTraffic(c, "peak")
	assert.Equal(t, 1000.0, edgeLength(t, n, 1, 2))
	assert.Equal(t, 1500.0, edgeLength(t, c, 1, 2))
}

func TestNetworkNearestNode(t *testing.T) {
	n := NewNetwork()
	_, ok := n.NearestNode(0, 0)
	assert.False(t, ok)

	n.AddNode(1, 50.7274, -1.8650)
	n.AddNode(2, 50.7205, -1.8795)
	id, ok := n.NearestNode(50.7270, -1.8660)
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)
	id, _ = n.NearestNode(50.7210, -1.8790)
	assert.Equal(t, int64(2), id)
}

func TestNetworkEdgeWithoutLength(t *testing.T) {
	n := NewNetwork()
	n.AddNode(1, 0, 0)
	n.AddNode(2, 0, 0.001)
	n.AddNode(3, 0, 0.002)
	n.AddEdge(1, 2, math.NaN(), false)
	n.AddEdge(2, 3, 100, false)

	// 无边权的边不参与寻路
	_, ok := n.Distance(1, 3)
	assert.False(t, ok)
	// 也不被traffic调整触碰
	AdjustForTraffic(n, "peak")
	l, ok := n.EdgeLength(1, 2)
	assert.True(t, ok)
	assert.True(t, math.IsNaN(l))
	assert.Equal(t, 150.0, edgeLength(t, n, 2, 3))
}

func TestResolveHubByCoordinate(t *testing.T) {
	loader, stops := newTriangleFixture(t)
	n, err := loader.LoadNetwork("Riverton")
	require.NoError(t, err)
	cfg := &Config{City: "Riverton", HubCoord: &LatLon{Lat: 0, Lon: 0.0011}}
	hub, err := ResolveHub(n, cfg, stops.table, "")
	require.NoError(t, err)
	// 坐标优先于名称，最近节点为2
	assert.Equal(t, int64(2), hub)
}

func TestResolveHubRegistryDefault(t *testing.T) {
	loader, stops := newTriangleFixture(t)
	n, err := loader.LoadNetwork("Riverton")
	require.NoError(t, err)
	cfg := &Config{City: "Riverton", TramStops: []string{"Alpha", "Charlie"}}
	hub, err := ResolveHub(n, cfg, stops.table, "Charlie")
	require.NoError(t, err)
	assert.Equal(t, int64(3), hub)
}
