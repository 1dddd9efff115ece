// Package gostore defines the annotation store consumed by the enrichment
// engine. Implementations provide gene lookup, direct GO annotations, and
// ancestor paths through the ontology DAG; pkg/gostore/pgxstore is the
// Postgres implementation.
package gostore

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable wraps store-level failures (connection loss, timeouts) so
// callers can distinguish them from empty results.
var ErrUnavailable = errors.New("annotation store unavailable")

// Aspect selects a branch of the Gene Ontology.
type Aspect string

const (
	AspectProcess   Aspect = "P"
	AspectFunction  Aspect = "F"
	AspectComponent Aspect = "C"
	AspectAll       Aspect = "all"
)

// Name returns the full ontology branch name for an aspect code.
func (a Aspect) Name() string {
	switch a {
	case AspectProcess:
		return "Biological Process"
	case AspectFunction:
		return "Molecular Function"
	case AspectComponent:
		return "Cellular Component"
	}
	return string(a)
}

// Gene is a feature record. ID is unique within an organism.
type Gene struct {
	ID             int64
	SystematicName string
	DisplayName    string
}

// GeneMatch pairs a gene with the uppercased name that matched it.
type GeneMatch struct {
	Matched string
	Gene    Gene
}

// Annotation is one direct gene-to-term assignment with its evidence code.
type Annotation struct {
	GeneID   int64
	TermID   int64
	Evidence string
}

// Edge is a child-to-ancestor path in the GO DAG. Generation is the minimal
// number of edges on the path; 1 means a direct parent.
type Edge struct {
	ChildID      int64
	AncestorID   int64
	Generation   int
	Relationship string
}

// Term is a GO term record. GOID is the numeric part of the public GO id.
type Term struct {
	ID     int64
	GOID   int
	Name   string
	Aspect Aspect
}

// Organism is a config option for the analysis form.
type Organism struct {
	ID   int64
	Name string
}

// EvidenceCode is a config option for the analysis form.
type EvidenceCode struct {
	Code        string
	Description string
}

// Filters restricts annotations by evidence code and annotation type. Empty
// slices mean no restriction. Annotation types use the store's own values
// (see NormalizeAnnotationType / StoreAnnotationType).
type Filters struct {
	EvidenceCodes   []string
	AnnotationTypes []string
}

// Store is the annotation store interface the engine consumes. Id lists
// passed in are pre-chunked by the caller; implementations never see more
// than the caller's chunk size at once.
type Store interface {
	// Gene lookup strategies, each case-insensitive over uppercased inputs.
	FindGenesBySystematicName(ctx context.Context, organism int64, upperNames []string) ([]GeneMatch, error)
	FindGenesByDisplayName(ctx context.Context, organism int64, upperNames []string) ([]GeneMatch, error)
	FindGenesByAlias(ctx context.Context, organism int64, upperNames []string) ([]GeneMatch, error)

	// GenesWithAnnotations reports which of the given genes carry at least
	// one direct GO annotation.
	GenesWithAnnotations(ctx context.Context, geneIDs []int64) (map[int64]bool, error)

	// DirectAnnotations returns direct annotations for the given genes,
	// restricted by aspect and filters.
	DirectAnnotations(ctx context.Context, geneIDs []int64, aspect Aspect, f Filters) ([]Annotation, error)

	// AncestorEdges returns all ancestor paths whose child is in termIDs.
	// When aspect is not AspectAll, edges whose ancestor lies outside the
	// aspect are omitted.
	AncestorEdges(ctx context.Context, termIDs []int64, aspect Aspect) ([]Edge, error)

	// DirectEdges returns only generation-1 paths whose child is in termIDs.
	DirectEdges(ctx context.Context, termIDs []int64) ([]Edge, error)

	// DefaultBackground returns every gene of the organism with at least one
	// annotation matching the filters.
	DefaultBackground(ctx context.Context, organism int64, f Filters) ([]int64, error)

	// Terms and Genes resolve metadata for result assembly.
	Terms(ctx context.Context, termIDs []int64) ([]Term, error)
	Genes(ctx context.Context, geneIDs []int64) ([]Gene, error)

	// Config options.
	Organisms(ctx context.Context) ([]Organism, error)
	EvidenceCodes(ctx context.Context) ([]EvidenceCode, error)
}

// FormatGOID renders a numeric GOID in the public GO:XXXXXXX form.
func FormatGOID(goid int) string {
	return fmt.Sprintf("GO:%07d", goid)
}

var annotationTypeMap = map[string]string{
	"manually curated": "manually_curated",
	"high-throughput":  "high_throughput",
	"computational":    "computational",
}

// NormalizeAnnotationType maps a store annotation type to its API form.
func NormalizeAnnotationType(storeType string) string {
	if storeType == "" {
		return "manually_curated"
	}
	if api, ok := annotationTypeMap[storeType]; ok {
		return api
	}
	out := make([]byte, len(storeType))
	for i := 0; i < len(storeType); i++ {
		switch storeType[i] {
		case ' ', '-':
			out[i] = '_'
		default:
			out[i] = storeType[i]
		}
	}
	return string(out)
}

// StoreAnnotationType maps an API annotation type back to the store value.
func StoreAnnotationType(apiType string) string {
	for store, api := range annotationTypeMap {
		if api == apiType {
			return store
		}
	}
	return apiType
}
