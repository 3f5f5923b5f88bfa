package routing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearest_EmptyCandidates(t *testing.T) {
	origin := Node{ID: "origin", Lat: 28.6139, Lon: 77.2090}

	node, dist := Nearest(origin, nil)
	assert.Nil(t, node)
	assert.Equal(t, 0.0, dist)

	node, _ = Nearest(origin, []Node{})
	assert.Nil(t, node)
}

func TestNearest_PicksGlobalMinimum(t *testing.T) {
	origin := Node{ID: "origin", Lat: 28.6139, Lon: 77.2090}
	candidates := []Node{
		{ID: "far", Lat: 28.7041, Lon: 77.1025},
		{ID: "near", Lat: 28.6149, Lon: 77.2090},
		{ID: "mid", Lat: 28.6339, Lon: 77.2090},
	}

	node, dist := Nearest(origin, candidates)
	assert.NotNil(t, node)
	assert.Equal(t, "near", node.ID)
	assert.InDelta(t, 111, dist, 5) // ~0.001 deg of latitude
}

func TestNearest_TieResolvesToFirstInInputOrder(t *testing.T) {
	origin := Node{ID: "origin", Lat: 0, Lon: 0}
	candidates := []Node{
		{ID: "a", Lat: 0.001, Lon: 0},
		{ID: "b", Lat: 0.001, Lon: 0},
		{ID: "c", Lat: -0.001, Lon: 0},
	}

	node, _ := Nearest(origin, candidates)
	assert.NotNil(t, node)
	assert.Equal(t, "a", node.ID)
}

func TestDijkstra_StarGraph(t *testing.T) {
	nodes := []Node{{ID: "s"}, {ID: "a"}, {ID: "b"}}
	edges := []Edge{
		{From: "s", To: "a", Weight: 5},
		{From: "s", To: "b", Weight: 2},
	}

	paths := Dijkstra(nodes, edges, "s")
	assert.Equal(t, 0.0, paths.Distances["s"])
	assert.Equal(t, 5.0, paths.Distances["a"])
	assert.Equal(t, 2.0, paths.Distances["b"])
	assert.Equal(t, "s", paths.Previous["a"])
	assert.Equal(t, "s", paths.Previous["b"])
}

func TestDijkstra_RelaxesMultiHopPaths(t *testing.T) {
	nodes := []Node{{ID: "s"}, {ID: "a"}, {ID: "b"}, {ID: "c"}}
	edges := []Edge{
		{From: "s", To: "a", Weight: 1},
		{From: "a", To: "b", Weight: 1},
		{From: "s", To: "b", Weight: 10},
		{From: "b", To: "c", Weight: 1},
	}

	paths := Dijkstra(nodes, edges, "s")
	assert.Equal(t, 2.0, paths.Distances["b"]) // via a, not the direct edge
	assert.Equal(t, "a", paths.Previous["b"])
	assert.Equal(t, 3.0, paths.Distances["c"])
}

func TestDijkstra_UnreachableNodeKeepsInfiniteDistance(t *testing.T) {
	nodes := []Node{{ID: "s"}, {ID: "island"}}

	paths := Dijkstra(nodes, nil, "s")
	assert.True(t, math.IsInf(paths.Distances["island"], 1))
	_, hasPrev := paths.Previous["island"]
	assert.False(t, hasPrev)
}
