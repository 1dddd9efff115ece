package enrich

import (
	"context"
	"sort"
	"strings"

	"github.com/genomehub/gotermfinder/pkg/gostore"
)

// DefaultMaxGraphNodes bounds the visualization graph size.
const DefaultMaxGraphNodes = 50

// BuildGraph restricts the ontology DAG to the enriched terms and their
// direct parent/child relationships. When the enriched set exceeds
// maxNodes the lowest p-values are kept. Only generation-1 edges already
// present in the DAG are emitted; no transitive edges are synthesized.
func BuildGraph(ctx context.Context, store gostore.Store, terms []EnrichedTerm, maxNodes int) (*Graph, error) {
	graph := &Graph{Nodes: []GraphNode{}, Edges: []GraphEdge{}}
	if len(terms) == 0 {
		return graph, nil
	}
	if maxNodes <= 0 {
		maxNodes = DefaultMaxGraphNodes
	}

	kept := make([]EnrichedTerm, len(terms))
	copy(kept, terms)
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].PValue != kept[j].PValue {
			return kept[i].PValue < kept[j].PValue
		}
		return kept[i].TermID < kept[j].TermID
	})
	if len(kept) > maxNodes {
		kept = kept[:maxNodes]
	}

	byID := make(map[int64]EnrichedTerm, len(kept))
	termIDs := make([]int64, 0, len(kept))
	for _, t := range kept {
		byID[t.TermID] = t
		termIDs = append(termIDs, t.TermID)
	}

	edges, err := fetchChunked(ctx, termIDs, DefaultChunkSize, func(ctx context.Context, chunk []int64) ([]gostore.Edge, error) {
		return store.DirectEdges(ctx, chunk)
	})
	if err != nil {
		return nil, err
	}

	for _, t := range kept {
		graph.Nodes = append(graph.Nodes, GraphNode{
			GOID:       t.GOID,
			Name:       t.Name,
			Aspect:     t.Aspect,
			PValue:     t.PValue,
			FDR:        t.FDR,
			QueryCount: t.QueryCount,
			IsEnriched: true,
		})
	}

	for _, e := range edges {
		ancestor, ok := byID[e.AncestorID]
		if !ok {
			continue
		}
		child, ok := byID[e.ChildID]
		if !ok {
			continue
		}
		relationship := "is_a"
		if e.Relationship != "" {
			relationship = strings.ReplaceAll(e.Relationship, " ", "_")
		}
		graph.Edges = append(graph.Edges, GraphEdge{
			Source:       ancestor.GOID,
			Target:       child.GOID,
			Relationship: relationship,
		})
	}
	return graph, nil
}
