// Package enrich implements GO term over-representation analysis: gene
// resolution, annotation expansion across the ontology DAG, an exact
// hypergeometric test, multiple testing correction, and result assembly.
// It is stateless; every run is a pure pipeline over data fetched from a
// gostore.Store.
package enrich

import (
	"github.com/genomehub/gotermfinder/pkg/gostore"
)

// Correction selects the multiple testing correction method.
type Correction string

const (
	CorrectionNone       Correction = "none"
	CorrectionBonferroni Correction = "bonferroni"
	CorrectionBH         Correction = "bh"
)

// DefaultChunkSize bounds the number of ids passed to a single store call.
// Backing stores commonly cap predicate-list sizes (Oracle stops at 1000);
// exceeding the cap truncates results silently, so every id list is chunked.
const DefaultChunkSize = 900

// Params are the inputs to a full enrichment run.
type Params struct {
	Genes           []string
	Organism        int64
	Aspect          gostore.Aspect
	BackgroundGenes []string // empty means default background
	EvidenceCodes   []string
	AnnotationTypes []string // API form, e.g. "manually_curated"
	PValueCutoff    float64
	Correction      Correction
	MinGenesInTerm  int
}

// AnnotationMap maps gene id to the set of GO term ids the gene is
// annotated to, directly or by ancestor inheritance after expansion.
type AnnotationMap map[int64]map[int64]struct{}

// TermStats holds the counts and statistics for one tested term.
// QueryCount is k, QueryTotal n, BackgroundCount K, BackgroundTotal N.
type TermStats struct {
	TermID          int64
	QueryCount      int
	QueryTotal      int
	BackgroundCount int
	BackgroundTotal int
	PValue          float64
	FDR             *float64
}

// GeneHit is a query gene contributing to an enriched term.
type GeneHit struct {
	GeneID         int64    `json:"gene_id"`
	SystematicName string   `json:"systematic_name"`
	DisplayName    string   `json:"gene_name,omitempty"`
	EvidenceCodes  []string `json:"evidence_codes"`
}

// EnrichedTerm is one significantly over-represented GO term.
type EnrichedTerm struct {
	TermID     int64  `json:"term_id"`
	GOID       string `json:"goid"`
	Name       string `json:"go_term"`
	Aspect     string `json:"go_aspect"`
	AspectName string `json:"aspect_name"`

	QueryCount      int `json:"query_count"`
	QueryTotal      int `json:"query_total"`
	BackgroundCount int `json:"background_count"`
	BackgroundTotal int `json:"background_total"`

	QueryFrequency      float64 `json:"query_frequency"`
	BackgroundFrequency float64 `json:"background_frequency"`
	FoldEnrichment      float64 `json:"fold_enrichment"`

	PValue float64  `json:"p_value"`
	FDR    *float64 `json:"fdr,omitempty"`

	Genes []GeneHit `json:"genes"`
}

// Result is the structured outcome of a run. Expected failure conditions
// set Success=false with a descriptive Error; they are never returned as Go
// errors (those are reserved for store failures).
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	QueryGenesSubmitted       int      `json:"query_genes_submitted"`
	QueryGenesFound           int      `json:"query_genes_found"`
	QueryGenesWithAnnotations int      `json:"query_genes_with_go"`
	QueryGenesNotFound        []string `json:"query_genes_not_found"`

	BackgroundSize int    `json:"background_size"`
	BackgroundType string `json:"background_type"`

	AspectFilter        string     `json:"ontology_filter"`
	EvidenceCodesUsed   []string   `json:"evidence_codes_used"`
	AnnotationTypesUsed []string   `json:"annotation_types_used"`
	PValueCutoff        float64    `json:"p_value_cutoff"`
	Correction          Correction `json:"correction_method"`

	ProcessTerms   []EnrichedTerm `json:"process_terms"`
	FunctionTerms  []EnrichedTerm `json:"function_terms"`
	ComponentTerms []EnrichedTerm `json:"component_terms"`

	TotalEnrichedTerms int      `json:"total_enriched_terms"`
	Warnings           []string `json:"warnings"`
}

// AllTerms returns the enriched terms of every aspect in one slice.
func (r *Result) AllTerms() []EnrichedTerm {
	out := make([]EnrichedTerm, 0, len(r.ProcessTerms)+len(r.FunctionTerms)+len(r.ComponentTerms))
	out = append(out, r.ProcessTerms...)
	out = append(out, r.FunctionTerms...)
	out = append(out, r.ComponentTerms...)
	return out
}

// ValidatedGene is a resolved query gene.
type ValidatedGene struct {
	Input          string `json:"input_name"`
	GeneID         int64  `json:"gene_id"`
	SystematicName string `json:"systematic_name"`
	DisplayName    string `json:"gene_name,omitempty"`
	HasAnnotations bool   `json:"has_go_annotations"`
}

// ResolveResult reports gene resolution; unresolved inputs are data, not an
// error. An entirely unresolvable input list is a valid result.
type ResolveResult struct {
	Found                []ValidatedGene `json:"found"`
	NotFound             []string        `json:"not_found"`
	TotalSubmitted       int             `json:"total_submitted"`
	TotalFound           int             `json:"total_found"`
	TotalWithAnnotations int             `json:"total_with_go"`
}

// GraphNode is a term in the enrichment visualization graph.
type GraphNode struct {
	GOID       string   `json:"goid"`
	Name       string   `json:"go_term"`
	Aspect     string   `json:"go_aspect"`
	PValue     float64  `json:"p_value"`
	FDR        *float64 `json:"fdr,omitempty"`
	QueryCount int      `json:"query_count"`
	IsEnriched bool     `json:"is_enriched"`
}

// GraphEdge is a direct parent-child relationship between two enriched
// terms. Source is the ancestor, Target the child.
type GraphEdge struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	Relationship string `json:"relationship_type"`
}

// Graph is the DAG restricted to enriched terms and their direct edges.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}
