package enrich

import (
	"context"
	"strings"

	"github.com/genomehub/gotermfinder/pkg/gostore"
)

// lookup is one gene resolution strategy. Strategies run in a fixed order
// and the first one producing a match for an input wins; later strategies
// only see the still-unmatched inputs.
type lookup func(ctx context.Context, organism int64, upperNames []string) ([]gostore.GeneMatch, error)

// Resolve maps free-text gene identifiers to gene records. Matching is
// case-insensitive against the systematic name, then the display name,
// then known aliases. Inputs resolving to the same gene collapse to a
// single entry. Unresolved inputs are reported in NotFound, never as an
// error.
func Resolve(ctx context.Context, store gostore.Store, organism int64, inputs []string) (*ResolveResult, error) {
	type pending struct {
		upper    string
		original string
	}

	var order []pending
	seen := make(map[string]bool)
	for _, raw := range inputs {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		upper := strings.ToUpper(trimmed)
		if seen[upper] {
			continue
		}
		seen[upper] = true
		order = append(order, pending{upper: upper, original: trimmed})
	}

	result := &ResolveResult{
		Found:    []ValidatedGene{},
		NotFound: []string{},

		TotalSubmitted: len(inputs),
	}
	if len(order) == 0 {
		return result, nil
	}

	strategies := []lookup{
		store.FindGenesBySystematicName,
		store.FindGenesByDisplayName,
		store.FindGenesByAlias,
	}

	matched := make(map[string]gostore.Gene)
	for _, strategy := range strategies {
		var remaining []string
		for _, p := range order {
			if _, ok := matched[p.upper]; !ok {
				remaining = append(remaining, p.upper)
			}
		}
		if len(remaining) == 0 {
			break
		}

		matches, err := fetchChunkedStrings(ctx, remaining, DefaultChunkSize, func(ctx context.Context, chunk []string) ([]gostore.GeneMatch, error) {
			return strategy(ctx, organism, chunk)
		})
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if _, ok := matched[m.Matched]; !ok {
				matched[m.Matched] = m.Gene
			}
		}
	}

	var geneIDs []int64
	seenGene := make(map[int64]bool)
	for _, p := range order {
		gene, ok := matched[p.upper]
		if !ok || seenGene[gene.ID] {
			continue
		}
		seenGene[gene.ID] = true
		geneIDs = append(geneIDs, gene.ID)
	}

	withAnnotations := make(map[int64]bool)
	for _, chunk := range Chunk(geneIDs, DefaultChunkSize) {
		part, err := store.GenesWithAnnotations(ctx, chunk)
		if err != nil {
			return nil, err
		}
		for id, has := range part {
			if has {
				withAnnotations[id] = true
			}
		}
	}

	emitted := make(map[int64]bool)
	for _, p := range order {
		gene, ok := matched[p.upper]
		if !ok {
			result.NotFound = append(result.NotFound, p.original)
			continue
		}
		if emitted[gene.ID] {
			continue
		}
		emitted[gene.ID] = true
		result.Found = append(result.Found, ValidatedGene{
			Input:          p.original,
			GeneID:         gene.ID,
			SystematicName: gene.SystematicName,
			DisplayName:    gene.DisplayName,
			HasAnnotations: withAnnotations[gene.ID],
		})
	}

	result.TotalFound = len(result.Found)
	for _, g := range result.Found {
		if g.HasAnnotations {
			result.TotalWithAnnotations++
		}
	}
	return result, nil
}

// fetchChunkedStrings mirrors fetchChunked for string id lists.
func fetchChunkedStrings[T any](
	ctx context.Context,
	ids []string,
	size int,
	fn func(ctx context.Context, chunk []string) ([]T, error),
) ([]T, error) {
	var merged []T
	for _, chunk := range Chunk(ids, size) {
		rows, err := fn(ctx, chunk)
		if err != nil {
			return nil, err
		}
		merged = append(merged, rows...)
	}
	return merged, nil
}
