package enrich

import (
	"sort"
)

// Calculate runs the hypergeometric test for every term appearing in at
// least one query gene's effective annotation set.
//
// N is the background gene count, n the query gene count (a subset of the
// background by construction upstream), K the background genes annotated to
// the term, k the query genes annotated to it. Terms are skipped when
// k < minGenes or when the background carries no support (K == 0); the
// latter also guards fold-enrichment division downstream. Survivors are
// filtered by pCutoff and returned sorted by (p-value, term id).
func Calculate(query, background AnnotationMap, pCutoff float64, minGenes int) []TermStats {
	bigN := len(background)
	n := len(query)
	if bigN == 0 || n == 0 {
		return []TermStats{}
	}

	queryGenes := make(map[int64]map[int64]struct{})
	backgroundCounts := make(map[int64]int)

	for geneID, terms := range query {
		for termID := range terms {
			set, ok := queryGenes[termID]
			if !ok {
				set = make(map[int64]struct{})
				queryGenes[termID] = set
			}
			set[geneID] = struct{}{}
		}
	}
	for _, terms := range background {
		for termID := range terms {
			backgroundCounts[termID]++
		}
	}

	results := make([]TermStats, 0, len(queryGenes))
	for termID, genes := range queryGenes {
		k := len(genes)
		bigK := backgroundCounts[termID]

		if k < minGenes {
			continue
		}
		if bigK == 0 {
			continue
		}

		p := HypergeomUpperTail(k, n, bigK, bigN)
		if p > pCutoff {
			continue
		}

		results = append(results, TermStats{
			TermID:          termID,
			QueryCount:      k,
			QueryTotal:      n,
			BackgroundCount: bigK,
			BackgroundTotal: bigN,
			PValue:          p,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].PValue != results[j].PValue {
			return results[i].PValue < results[j].PValue
		}
		return results[i].TermID < results[j].TermID
	})
	return results
}
