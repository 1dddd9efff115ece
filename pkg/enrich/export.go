package enrich

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// tableHeader is the fixed column order of tabular exports.
var tableHeader = []string{
	"GOID",
	"GO Term",
	"Aspect",
	"Query Count",
	"Query Total",
	"Query %",
	"Background Count",
	"Background Total",
	"Background %",
	"Fold Enrichment",
	"P-value",
	"FDR",
	"Genes",
}

// WriteTable writes every enriched term of the result as a delimited table.
// Aspects are combined and sorted ascending by raw p-value. Pass '\t' for
// TSV or ',' for CSV.
func WriteTable(w io.Writer, r *Result, delimiter rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter

	if err := cw.Write(tableHeader); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}

	terms := r.AllTerms()
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].PValue != terms[j].PValue {
			return terms[i].PValue < terms[j].PValue
		}
		return terms[i].TermID < terms[j].TermID
	})

	for _, t := range terms {
		fdr := "N/A"
		if t.FDR != nil {
			fdr = fmt.Sprintf("%.2e", *t.FDR)
		}

		names := make([]string, 0, len(t.Genes))
		for _, g := range t.Genes {
			name := g.DisplayName
			if name == "" {
				name = g.SystematicName
			}
			names = append(names, name)
		}

		row := []string{
			t.GOID,
			t.Name,
			t.AspectName,
			strconv.Itoa(t.QueryCount),
			strconv.Itoa(t.QueryTotal),
			fmt.Sprintf("%.2f%%", t.QueryFrequency),
			strconv.Itoa(t.BackgroundCount),
			strconv.Itoa(t.BackgroundTotal),
			fmt.Sprintf("%.4f%%", t.BackgroundFrequency),
			fmt.Sprintf("%.2f", t.FoldEnrichment),
			fmt.Sprintf("%.2e", t.PValue),
			fdr,
			strings.Join(names, ", "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing export row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
