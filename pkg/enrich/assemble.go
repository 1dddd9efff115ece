package enrich

import (
	"math"
	"sort"

	"github.com/genomehub/gotermfinder/pkg/gostore"
)

// Assemble turns corrected statistics into enriched term records grouped by
// aspect. Each record carries frequencies, fold enrichment, and the query
// genes hitting the term together with their direct evidence codes.
// Within an aspect, records sort ascending by raw p-value with term id as
// the tie break.
func Assemble(
	stats []TermStats,
	terms map[int64]gostore.Term,
	queryAnnotations AnnotationMap,
	genes map[int64]gostore.Gene,
	evidence map[int64]map[int64]map[string]struct{},
) (process, function, component []EnrichedTerm) {
	process = []EnrichedTerm{}
	function = []EnrichedTerm{}
	component = []EnrichedTerm{}

	for _, s := range stats {
		term, ok := terms[s.TermID]
		if !ok {
			continue
		}

		record := EnrichedTerm{
			TermID:     s.TermID,
			GOID:       gostore.FormatGOID(term.GOID),
			Name:       term.Name,
			Aspect:     string(term.Aspect),
			AspectName: term.Aspect.Name(),

			QueryCount:      s.QueryCount,
			QueryTotal:      s.QueryTotal,
			BackgroundCount: s.BackgroundCount,
			BackgroundTotal: s.BackgroundTotal,

			PValue: s.PValue,
			FDR:    s.FDR,

			Genes: geneHits(s.TermID, queryAnnotations, genes, evidence),
		}

		if s.QueryTotal > 0 {
			record.QueryFrequency = round2(float64(s.QueryCount) / float64(s.QueryTotal) * 100)
		}
		if s.BackgroundTotal > 0 {
			record.BackgroundFrequency = round4(float64(s.BackgroundCount) / float64(s.BackgroundTotal) * 100)
		}
		if s.BackgroundCount > 0 && s.BackgroundTotal > 0 && s.QueryTotal > 0 {
			queryRate := float64(s.QueryCount) / float64(s.QueryTotal)
			backgroundRate := float64(s.BackgroundCount) / float64(s.BackgroundTotal)
			record.FoldEnrichment = round2(queryRate / backgroundRate)
		}

		switch term.Aspect {
		case gostore.AspectProcess:
			process = append(process, record)
		case gostore.AspectFunction:
			function = append(function, record)
		case gostore.AspectComponent:
			component = append(component, record)
		}
	}

	for _, list := range [][]EnrichedTerm{process, function, component} {
		sort.Slice(list, func(i, j int) bool {
			if list[i].PValue != list[j].PValue {
				return list[i].PValue < list[j].PValue
			}
			return list[i].TermID < list[j].TermID
		})
	}
	return process, function, component
}

// geneHits lists the query genes whose effective annotation set contains
// termID. Evidence codes come from direct annotations only; a gene hitting
// the term purely by inheritance has an empty code list.
func geneHits(
	termID int64,
	queryAnnotations AnnotationMap,
	genes map[int64]gostore.Gene,
	evidence map[int64]map[int64]map[string]struct{},
) []GeneHit {
	var hits []GeneHit
	for geneID, termSet := range queryAnnotations {
		if _, ok := termSet[termID]; !ok {
			continue
		}
		gene, ok := genes[geneID]
		if !ok {
			continue
		}

		var codes []string
		if perGene, ok := evidence[termID]; ok {
			for code := range perGene[geneID] {
				codes = append(codes, code)
			}
			sort.Strings(codes)
		}
		if codes == nil {
			codes = []string{}
		}

		hits = append(hits, GeneHit{
			GeneID:         geneID,
			SystematicName: gene.SystematicName,
			DisplayName:    gene.DisplayName,
			EvidenceCodes:  codes,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].SystematicName < hits[j].SystematicName
	})
	return hits
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
