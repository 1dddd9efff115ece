package enrich

import (
	"context"
	"fmt"

	"github.com/genomehub/gotermfinder/pkg/gostore"
)

// Short-circuit messages for the expected failure conditions. Unresolved
// identifiers never abort a run; only these empty-set conditions do.
const (
	errNoValidGenes       = "no valid genes found in the database"
	errEmptyBackground    = "background set is empty with the specified filters"
	errQueryNotInBack     = "no query genes found in background set"
	errNoAnnotatedQuery   = "no query genes have GO annotations with the specified filters"
	warnNoEnrichedTerms   = "no significantly enriched GO terms found"
	backgroundTypeDefault = "default"
	backgroundTypeCustom  = "custom"
)

// Run executes the full enrichment pipeline. Expected conditions (no valid
// genes, empty background, disjoint query, unannotated query) come back as
// Success=false with a descriptive Error; a non-nil Go error means the
// annotation store failed and must not be read as "no results".
func Run(ctx context.Context, store gostore.Store, p Params) (*Result, error) {
	result := &Result{
		QueryGenesSubmitted: len(p.Genes),
		QueryGenesNotFound:  []string{},
		BackgroundType:      backgroundTypeDefault,
		AspectFilter:        string(p.Aspect),
		EvidenceCodesUsed:   orEmpty(p.EvidenceCodes),
		AnnotationTypesUsed: orEmpty(p.AnnotationTypes),
		PValueCutoff:        p.PValueCutoff,
		Correction:          p.Correction,
		ProcessTerms:        []EnrichedTerm{},
		FunctionTerms:       []EnrichedTerm{},
		ComponentTerms:      []EnrichedTerm{},
		Warnings:            []string{},
	}

	filters := gostore.Filters{
		EvidenceCodes:   p.EvidenceCodes,
		AnnotationTypes: storeAnnotationTypes(p.AnnotationTypes),
	}

	// Step 1: resolve query genes.
	resolved, err := Resolve(ctx, store, p.Organism, p.Genes)
	if err != nil {
		return nil, fmt.Errorf("resolving query genes: %w", err)
	}
	result.QueryGenesNotFound = resolved.NotFound

	queryIDs := make([]int64, 0, len(resolved.Found))
	for _, g := range resolved.Found {
		queryIDs = append(queryIDs, g.GeneID)
	}
	if len(queryIDs) == 0 {
		result.Error = errNoValidGenes
		return result, nil
	}

	// Step 2: build the background set.
	var backgroundIDs []int64
	if len(p.BackgroundGenes) > 0 {
		result.BackgroundType = backgroundTypeCustom
		backgroundResolved, err := Resolve(ctx, store, p.Organism, p.BackgroundGenes)
		if err != nil {
			return nil, fmt.Errorf("resolving background genes: %w", err)
		}
		if missing := len(backgroundResolved.NotFound); missing > 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%d background genes not found", missing))
		}
		for _, g := range backgroundResolved.Found {
			backgroundIDs = append(backgroundIDs, g.GeneID)
		}
	} else {
		backgroundIDs, err = store.DefaultBackground(ctx, p.Organism, filters)
		if err != nil {
			return nil, fmt.Errorf("fetching default background: %w", err)
		}
	}
	if len(backgroundIDs) == 0 {
		result.Error = errEmptyBackground
		return result, nil
	}

	// Query must be a subset of the background; drop strays before testing.
	backgroundSet := make(map[int64]struct{}, len(backgroundIDs))
	for _, id := range backgroundIDs {
		backgroundSet[id] = struct{}{}
	}
	kept := queryIDs[:0]
	for _, id := range queryIDs {
		if _, ok := backgroundSet[id]; ok {
			kept = append(kept, id)
		}
	}
	queryIDs = kept
	if len(queryIDs) == 0 {
		result.Error = errQueryNotInBack
		return result, nil
	}
	result.QueryGenesFound = len(queryIDs)

	// Step 3: expand annotations over DAG ancestors.
	queryAnnotations, err := Expand(ctx, store, queryIDs, p.Aspect, filters)
	if err != nil {
		return nil, fmt.Errorf("expanding query annotations: %w", err)
	}
	backgroundAnnotations, err := Expand(ctx, store, backgroundIDs, p.Aspect, filters)
	if err != nil {
		return nil, fmt.Errorf("expanding background annotations: %w", err)
	}

	result.QueryGenesWithAnnotations = len(queryAnnotations)
	result.BackgroundSize = len(backgroundAnnotations)
	if len(queryAnnotations) == 0 {
		result.Error = errNoAnnotatedQuery
		return result, nil
	}

	// Steps 4-5: test and correct.
	stats := Calculate(queryAnnotations, backgroundAnnotations, p.PValueCutoff, p.MinGenesInTerm)
	corrected := Correct(stats, p.Correction, p.PValueCutoff)

	result.Success = true
	if len(corrected) == 0 {
		result.Warnings = append(result.Warnings, warnNoEnrichedTerms)
		return result, nil
	}

	// Step 6: assemble enriched term records.
	termIDs := make([]int64, 0, len(corrected))
	for _, s := range corrected {
		termIDs = append(termIDs, s.TermID)
	}

	termRows, err := fetchChunked(ctx, termIDs, DefaultChunkSize, func(ctx context.Context, chunk []int64) ([]gostore.Term, error) {
		return store.Terms(ctx, chunk)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching term metadata: %w", err)
	}
	terms := make(map[int64]gostore.Term, len(termRows))
	for _, t := range termRows {
		terms[t.ID] = t
	}

	annotatedQueryIDs := make([]int64, 0, len(queryAnnotations))
	for id := range queryAnnotations {
		annotatedQueryIDs = append(annotatedQueryIDs, id)
	}
	geneRows, err := fetchChunked(ctx, annotatedQueryIDs, DefaultChunkSize, func(ctx context.Context, chunk []int64) ([]gostore.Gene, error) {
		return store.Genes(ctx, chunk)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching gene metadata: %w", err)
	}
	genes := make(map[int64]gostore.Gene, len(geneRows))
	for _, g := range geneRows {
		genes[g.ID] = g
	}

	evidence, err := directEvidence(ctx, store, annotatedQueryIDs, termIDs, p.Aspect, filters)
	if err != nil {
		return nil, fmt.Errorf("fetching evidence codes: %w", err)
	}

	result.ProcessTerms, result.FunctionTerms, result.ComponentTerms =
		Assemble(corrected, terms, queryAnnotations, genes, evidence)
	result.TotalEnrichedTerms =
		len(result.ProcessTerms) + len(result.FunctionTerms) + len(result.ComponentTerms)
	return result, nil
}

// directEvidence maps enriched term -> gene -> set of direct evidence
// codes. Inherited hits carry no direct annotation and stay absent.
func directEvidence(
	ctx context.Context,
	store gostore.Store,
	geneIDs, termIDs []int64,
	aspect gostore.Aspect,
	filters gostore.Filters,
) (map[int64]map[int64]map[string]struct{}, error) {
	wanted := make(map[int64]struct{}, len(termIDs))
	for _, id := range termIDs {
		wanted[id] = struct{}{}
	}

	annotations, err := fetchChunked(ctx, geneIDs, DefaultChunkSize, func(ctx context.Context, chunk []int64) ([]gostore.Annotation, error) {
		return store.DirectAnnotations(ctx, chunk, aspect, filters)
	})
	if err != nil {
		return nil, err
	}

	evidence := make(map[int64]map[int64]map[string]struct{})
	for _, ann := range annotations {
		if _, ok := wanted[ann.TermID]; !ok {
			continue
		}
		perGene, ok := evidence[ann.TermID]
		if !ok {
			perGene = make(map[int64]map[string]struct{})
			evidence[ann.TermID] = perGene
		}
		codes, ok := perGene[ann.GeneID]
		if !ok {
			codes = make(map[string]struct{})
			perGene[ann.GeneID] = codes
		}
		codes[ann.Evidence] = struct{}{}
	}
	return evidence, nil
}

func storeAnnotationTypes(apiTypes []string) []string {
	if len(apiTypes) == 0 {
		return nil
	}
	out := make([]string, 0, len(apiTypes))
	for _, t := range apiTypes {
		out = append(out, gostore.StoreAnnotationType(t))
	}
	return out
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
