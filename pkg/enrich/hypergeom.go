package enrich

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// HypergeomUpperTail returns P(X >= k) for X ~ Hypergeometric(N, K, n):
// the probability of drawing at least k annotated genes in a sample of n
// from a population of N containing K annotated genes. Enrichment asks
// "at least this many", so this is the survival probability at k-1, not
// the point mass at k.
//
// Terms are computed from log-binomials and summed; the sum is clamped to
// [0, 1] because rounding can overshoot 1.0 at the degenerate extremes.
func HypergeomUpperTail(k, n, K, N int) float64 {
	if N <= 0 || n <= 0 || K < 0 {
		return 1.0
	}
	if k <= 0 {
		return 1.0
	}
	upper := n
	if K < upper {
		upper = K
	}
	if k > upper {
		return 0.0
	}

	logDenom := combin.LogGeneralizedBinomial(float64(N), float64(n))

	var p float64
	for i := k; i <= upper; i++ {
		// C(N-K, n-i) is zero when the sample needs more unannotated
		// genes than the population holds.
		if n-i > N-K {
			continue
		}
		logTerm := combin.LogGeneralizedBinomial(float64(K), float64(i)) +
			combin.LogGeneralizedBinomial(float64(N-K), float64(n-i)) -
			logDenom
		p += math.Exp(logTerm)
	}

	if p > 1.0 {
		p = 1.0
	}
	if p < 0.0 {
		p = 0.0
	}
	return p
}
