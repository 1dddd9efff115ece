package enrich

import (
	"sort"
)

// Correct applies multiple testing correction and filters by cutoff.
//
// The number of tests is the count of records entering correction, i.e.
// the terms that survived Calculate, not the full GO catalogue. An empty
// input yields an empty output for every method.
func Correct(results []TermStats, method Correction, cutoff float64) []TermStats {
	if len(results) == 0 {
		return []TermStats{}
	}

	switch method {
	case CorrectionBonferroni:
		return correctBonferroni(results, cutoff)
	case CorrectionBH:
		return correctBH(results, cutoff)
	default:
		out := make([]TermStats, len(results))
		copy(out, results)
		for i := range out {
			out[i].FDR = nil
		}
		return out
	}
}

func correctBonferroni(results []TermStats, cutoff float64) []TermStats {
	nTests := float64(len(results))
	out := make([]TermStats, 0, len(results))
	for _, r := range results {
		corrected := r.PValue * nTests
		if corrected > 1.0 {
			corrected = 1.0
		}
		if corrected > cutoff {
			continue
		}
		r.FDR = &corrected
		out = append(out, r)
	}
	return out
}

// correctBH applies Benjamini-Hochberg: naive FDR = p * nTests / rank over
// records sorted ascending by raw p-value, then a sweep from the largest
// rank down replaces each FDR with the minimum of itself and the next
// higher rank's, so corrected values never increase as rank decreases.
func correctBH(results []TermStats, cutoff float64) []TermStats {
	nTests := float64(len(results))

	sorted := make([]TermStats, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].PValue != sorted[j].PValue {
			return sorted[i].PValue < sorted[j].PValue
		}
		return sorted[i].TermID < sorted[j].TermID
	})

	fdrs := make([]float64, len(sorted))
	for i, r := range sorted {
		rank := float64(i + 1)
		fdrs[i] = r.PValue * nTests / rank
	}
	for i := len(fdrs) - 2; i >= 0; i-- {
		if fdrs[i] > fdrs[i+1] {
			fdrs[i] = fdrs[i+1]
		}
	}

	out := make([]TermStats, 0, len(sorted))
	for i, r := range sorted {
		fdr := fdrs[i]
		if fdr > 1.0 {
			fdr = 1.0
		}
		if fdr > cutoff {
			continue
		}
		f := fdr
		r.FDR = &f
		out = append(out, r)
	}
	return out
}
