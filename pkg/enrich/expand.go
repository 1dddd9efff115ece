package enrich

import (
	"context"

	"github.com/genomehub/gotermfinder/pkg/gostore"
)

// Expand fetches direct annotations for the given genes and computes the
// transitive closure over DAG ancestor paths: a gene annotated to a term is
// implicitly annotated to every ancestor of that term. Genes with no
// matching direct annotation do not appear in the returned map.
//
// When aspect is not AspectAll the store omits ancestor edges whose
// ancestor lies outside the aspect, even though the child is in-aspect.
// This deliberately drops same-aspect ancestors reachable only through an
// off-aspect intermediate; downstream gene counts are calibrated against
// this conservative reading of malformed cross-aspect edges.
func Expand(
	ctx context.Context,
	store gostore.Store,
	geneIDs []int64,
	aspect gostore.Aspect,
	filters gostore.Filters,
) (AnnotationMap, error) {
	if len(geneIDs) == 0 {
		return AnnotationMap{}, nil
	}

	direct, err := fetchChunked(ctx, geneIDs, DefaultChunkSize, func(ctx context.Context, chunk []int64) ([]gostore.Annotation, error) {
		return store.DirectAnnotations(ctx, chunk, aspect, filters)
	})
	if err != nil {
		return nil, err
	}

	annotations := AnnotationMap{}
	termSet := make(map[int64]struct{})
	for _, ann := range direct {
		terms, ok := annotations[ann.GeneID]
		if !ok {
			terms = make(map[int64]struct{})
			annotations[ann.GeneID] = terms
		}
		terms[ann.TermID] = struct{}{}
		termSet[ann.TermID] = struct{}{}
	}
	if len(termSet) == 0 {
		return annotations, nil
	}

	termIDs := make([]int64, 0, len(termSet))
	for id := range termSet {
		termIDs = append(termIDs, id)
	}

	edges, err := fetchChunked(ctx, termIDs, DefaultChunkSize, func(ctx context.Context, chunk []int64) ([]gostore.Edge, error) {
		return store.AncestorEdges(ctx, chunk, aspect)
	})
	if err != nil {
		return nil, err
	}

	ancestors := make(map[int64]map[int64]struct{})
	for _, e := range edges {
		set, ok := ancestors[e.ChildID]
		if !ok {
			set = make(map[int64]struct{})
			ancestors[e.ChildID] = set
		}
		set[e.AncestorID] = struct{}{}
	}

	applyAncestors(annotations, ancestors)
	return annotations, nil
}

// applyAncestors unions each gene's term set with the ancestor set of every
// term it holds. Ancestor sets come from the store's transitive closure, so
// applying this a second time changes nothing: the operation is idempotent.
// Sets, not counts: a term reachable over multiple DAG paths still appears
// once.
func applyAncestors(annotations AnnotationMap, ancestors map[int64]map[int64]struct{}) {
	for _, terms := range annotations {
		inherited := make(map[int64]struct{})
		for termID := range terms {
			for ancestorID := range ancestors[termID] {
				inherited[ancestorID] = struct{}{}
			}
		}
		for ancestorID := range inherited {
			terms[ancestorID] = struct{}{}
		}
	}
}
