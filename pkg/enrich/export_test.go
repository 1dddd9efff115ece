package enrich

import (
	"bytes"
	"strings"
	"testing"
)

func exportResult() *Result {
	fdr := 0.002
	return &Result{
		Success: true,
		ProcessTerms: []EnrichedTerm{
			{
				TermID: 100, GOID: "GO:0006355", Name: "regulation of transcription",
				Aspect: "P", AspectName: "Biological Process",
				QueryCount: 2, QueryTotal: 4, BackgroundCount: 10, BackgroundTotal: 100,
				QueryFrequency: 50.0, BackgroundFrequency: 10.0, FoldEnrichment: 5.0,
				PValue: 0.001, FDR: &fdr,
				Genes: []GeneHit{
					{GeneID: 1, SystematicName: "YBR001C", DisplayName: "AAA1"},
					{GeneID: 2, SystematicName: "YAL001C"},
				},
			},
		},
		FunctionTerms: []EnrichedTerm{
			{
				TermID: 200, GOID: "GO:0003677", Name: "DNA binding",
				Aspect: "F", AspectName: "Molecular Function",
				QueryCount: 3, QueryTotal: 4, BackgroundCount: 30, BackgroundTotal: 100,
				QueryFrequency: 75.0, BackgroundFrequency: 30.0, FoldEnrichment: 2.5,
				PValue: 0.0001,
			},
		},
		ComponentTerms: []EnrichedTerm{},
	}
}

func TestWriteTableTSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, exportResult(), '\t'); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}

	header := strings.Split(lines[0], "\t")
	want := []string{
		"GOID", "GO Term", "Aspect", "Query Count", "Query Total", "Query %",
		"Background Count", "Background Total", "Background %",
		"Fold Enrichment", "P-value", "FDR", "Genes",
	}
	if len(header) != len(want) {
		t.Fatalf("header columns: got %d want %d", len(header), len(want))
	}
	for i := range want {
		if header[i] != want[i] {
			t.Fatalf("header column %d: got %q want %q", i, header[i], want[i])
		}
	}

	// Aspects combine and sort by p-value: the function term leads.
	first := strings.Split(lines[1], "\t")
	if first[0] != "GO:0003677" {
		t.Fatalf("expected lowest p-value first, got %q", first[0])
	}
	if first[11] != "N/A" {
		t.Fatalf("missing FDR must render as N/A, got %q", first[11])
	}

	second := strings.Split(lines[2], "\t")
	if second[5] != "50.00%" {
		t.Fatalf("query frequency format: got %q", second[5])
	}
	if second[8] != "10.0000%" {
		t.Fatalf("background frequency format: got %q", second[8])
	}
	if second[10] != "1.00e-03" {
		t.Fatalf("p-value format: got %q", second[10])
	}
	if second[11] != "2.00e-03" {
		t.Fatalf("FDR format: got %q", second[11])
	}
	if second[12] != "AAA1, YAL001C" {
		t.Fatalf("gene list: got %q", second[12])
	}
}

func TestWriteTableCSVQuotesGeneList(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, exportResult(), ','); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"AAA1, YAL001C"`) {
		t.Fatalf("comma-bearing gene list must be quoted in CSV output:\n%s", out)
	}
}

func TestWriteTableEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	r := &Result{Success: true, ProcessTerms: []EnrichedTerm{}, FunctionTerms: []EnrichedTerm{}, ComponentTerms: []EnrichedTerm{}}
	if err := WriteTable(&buf, r, '\t'); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
}
