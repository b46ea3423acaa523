package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPath(t *testing.T) {
	p, err := NewPath(filepath.Join("testdata", "riverton.json"))
	require.NoError(t, err)
	assert.True(t, p.IsFile())

	p, err = NewPath("citydb.networks")
	require.NoError(t, err)
	assert.False(t, p.IsFile())
	assert.Equal(t, "citydb", p.DB)
	assert.Equal(t, "networks", p.Coll)

	_, err = NewPath("")
	assert.Error(t, err)
	_, err = NewPath("a.b.c")
	assert.Error(t, err)
}

func TestFileNetworkSource(t *testing.T) {
	p, err := NewPath(filepath.Join("testdata", "riverton.json"))
	require.NoError(t, err)
	loader, err := NewNetworkSource(p, "")
	require.NoError(t, err)

	n, err := loader.LoadNetwork("Riverton, UK")
	require.NoError(t, err)
	assert.Equal(t, 4, n.NumNodes())
	// 无向语义：每条输入边为一对有向边
	assert.Equal(t, 6, n.NumEdges())
	l, ok := n.EdgeLength(1, 2)
	assert.True(t, ok)
	assert.Equal(t, 400.0, l)
	l, ok = n.EdgeLength(2, 1)
	assert.True(t, ok)
	assert.Equal(t, 400.0, l)

	d, ok := n.Distance(1, 4)
	assert.True(t, ok)
	assert.Equal(t, 1500.0, d)
}

func TestMongoSourceRequiresURI(t *testing.T) {
	p, err := NewPath("citydb.networks")
	require.NoError(t, err)
	_, err = NewNetworkSource(p, "")
	assert.Error(t, err)
}
