// Package routing holds the shortest-path primitives used to suggest the
// next target to visit. Today every graph is a star rooted at the field
// worker's position, but the interface stays general so inter-target
// edges can be added for true multi-stop route planning.
package routing

import (
	"math"

	"github.com/fieldops-microservice/internal/pkg/utils"
)

type Node struct {
	ID  string
	Lat float64
	Lon float64
}

type Edge struct {
	From   string
	To     string
	Weight float64
}

// ShortestPaths is the result of a single-source Dijkstra run. Distances
// maps node ID to tentative distance (unreachable nodes keep +Inf);
// Previous maps node ID to its predecessor on the shortest path.
type ShortestPaths struct {
	Distances map[string]float64
	Previous  map[string]string
}

// Dijkstra computes single-source shortest paths over the given directed
// graph. Edge weights must be non-negative. Nodes unreachable from
// startID keep an infinite distance and no predecessor.
func Dijkstra(nodes []Node, edges []Edge, startID string) ShortestPaths {
	distances := make(map[string]float64, len(nodes))
	previous := make(map[string]string, len(nodes))
	unvisited := make(map[string]bool, len(nodes))

	// Stable iteration order for tie-breaking: keep the input order.
	order := make([]string, 0, len(nodes))
	for _, n := range nodes {
		distances[n.ID] = math.Inf(1)
		unvisited[n.ID] = true
		order = append(order, n.ID)
	}
	distances[startID] = 0

	outgoing := make(map[string][]Edge, len(nodes))
	for _, e := range edges {
		outgoing[e.From] = append(outgoing[e.From], e)
	}

	for remaining := len(unvisited); remaining > 0; remaining-- {
		currentID := ""
		shortest := math.Inf(1)
		for _, id := range order {
			if unvisited[id] && distances[id] < shortest {
				shortest = distances[id]
				currentID = id
			}
		}

		// Everything still unvisited is unreachable.
		if currentID == "" {
			break
		}
		delete(unvisited, currentID)

		for _, e := range outgoing[currentID] {
			if !unvisited[e.To] {
				continue
			}
			if alt := distances[currentID] + e.Weight; alt < distances[e.To] {
				distances[e.To] = alt
				previous[e.To] = currentID
			}
		}
	}

	return ShortestPaths{Distances: distances, Previous: previous}
}

// Nearest returns the candidate closest to origin by great-circle
// distance, or nil for an empty candidate list. Ties resolve to the
// first such candidate in input order. It builds the origin-rooted star
// graph and runs Dijkstra over it, so the selection keeps working
// unchanged if candidates ever get interconnecting edges.
func Nearest(origin Node, candidates []Node) (*Node, float64) {
	if len(candidates) == 0 {
		return nil, 0
	}

	nodes := make([]Node, 0, len(candidates)+1)
	nodes = append(nodes, origin)
	edges := make([]Edge, 0, len(candidates))
	for _, c := range candidates {
		nodes = append(nodes, c)
		edges = append(edges, Edge{
			From:   origin.ID,
			To:     c.ID,
			Weight: utils.HaversineMeters(origin.Lat, origin.Lon, c.Lat, c.Lon),
		})
	}

	paths := Dijkstra(nodes, edges, origin.ID)

	best := -1
	bestDist := math.Inf(1)
	for i, c := range candidates {
		if d, ok := paths.Distances[c.ID]; ok && d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		return nil, 0
	}

	chosen := candidates[best]
	return &chosen, bestDist
}
