package enrich

import (
	"context"
	"testing"

	"github.com/genomehub/gotermfinder/pkg/gostore"
)

// dagStore models a small DAG:
//
//	300 (process root)
//	 └─ 200 ── 100
//	500 (component) has process child 400 via a malformed cross-aspect edge.
func dagStore() *fakeStore {
	return &fakeStore{
		genes: map[int64]gostore.Gene{
			1: {ID: 1, SystematicName: "YAL001C"},
			2: {ID: 2, SystematicName: "YAL002W"},
		},
		terms: map[int64]gostore.Term{
			100: {ID: 100, GOID: 100, Name: "leaf", Aspect: gostore.AspectProcess},
			200: {ID: 200, GOID: 200, Name: "mid", Aspect: gostore.AspectProcess},
			300: {ID: 300, GOID: 300, Name: "root", Aspect: gostore.AspectProcess},
			400: {ID: 400, GOID: 400, Name: "stray", Aspect: gostore.AspectProcess},
			500: {ID: 500, GOID: 500, Name: "off-aspect", Aspect: gostore.AspectComponent},
		},
		annotations: []fakeAnnotation{
			{Annotation: gostore.Annotation{GeneID: 1, TermID: 100, Evidence: "IDA"}},
			{Annotation: gostore.Annotation{GeneID: 1, TermID: 200, Evidence: "IMP"}},
			{Annotation: gostore.Annotation{GeneID: 2, TermID: 400, Evidence: "IEA"}},
		},
		edges: []gostore.Edge{
			{ChildID: 100, AncestorID: 200, Generation: 1, Relationship: "is a"},
			{ChildID: 100, AncestorID: 300, Generation: 2, Relationship: "is a"},
			{ChildID: 200, AncestorID: 300, Generation: 1, Relationship: "is a"},
			{ChildID: 400, AncestorID: 500, Generation: 1, Relationship: "part of"},
		},
	}
}

func TestExpandInheritsAncestors(t *testing.T) {
	store := dagStore()
	got, err := Expand(context.Background(), store, []int64{1}, gostore.AspectProcess, gostore.Filters{})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	terms := got[1]
	for _, want := range []int64{100, 200, 300} {
		if _, ok := terms[want]; !ok {
			t.Fatalf("gene 1 missing term %d, have %v", want, terms)
		}
	}
	if len(terms) != 3 {
		t.Fatalf("expected 3 effective terms for gene 1, got %d", len(terms))
	}
}

func TestExpandSetsNotCounts(t *testing.T) {
	// Gene 1 reaches term 300 via two paths (direct-from-200 closure and
	// from-100 closure); it must appear exactly once as a set member.
	store := dagStore()
	got, err := Expand(context.Background(), store, []int64{1}, gostore.AspectProcess, gostore.Filters{})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	count := 0
	for termID := range got[1] {
		if termID == 300 {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("term 300 appears %d times", count)
	}
}

func TestExpandAspectGuardDropsOffAspectAncestors(t *testing.T) {
	store := dagStore()
	got, err := Expand(context.Background(), store, []int64{2}, gostore.AspectProcess, gostore.Filters{})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	terms := got[2]
	if _, ok := terms[400]; !ok {
		t.Fatalf("gene 2 missing its direct term 400")
	}
	if _, ok := terms[500]; ok {
		t.Fatalf("off-aspect ancestor 500 must not be inherited under the process aspect")
	}
}

func TestExpandUnannotatedGeneAbsent(t *testing.T) {
	store := dagStore()
	got, err := Expand(context.Background(), store, []int64{1, 2, 99}, gostore.AspectProcess, gostore.Filters{})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if _, ok := got[99]; ok {
		t.Fatalf("gene without annotations must be absent from the map")
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 annotated genes, got %d", len(got))
	}
}

func TestExpandEvidenceFilter(t *testing.T) {
	store := dagStore()
	got, err := Expand(context.Background(), store, []int64{1}, gostore.AspectProcess, gostore.Filters{EvidenceCodes: []string{"IDA"}})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	terms := got[1]
	// Only the IDA annotation to 100 survives; 200 is still reached by
	// inheritance, never dropped by the evidence filter.
	for _, want := range []int64{100, 200, 300} {
		if _, ok := terms[want]; !ok {
			t.Fatalf("missing term %d under evidence filter, have %v", want, terms)
		}
	}
}

func TestApplyAncestorsIdempotent(t *testing.T) {
	annotations := AnnotationMap{
		1: {100: {}},
	}
	ancestors := map[int64]map[int64]struct{}{
		100: {200: {}, 300: {}},
	}
	applyAncestors(annotations, ancestors)
	first := len(annotations[1])
	applyAncestors(annotations, ancestors)
	if len(annotations[1]) != first {
		t.Fatalf("second application changed the set: %d -> %d", first, len(annotations[1]))
	}
}

func TestExpandEmptyInput(t *testing.T) {
	store := dagStore()
	got, err := Expand(context.Background(), store, nil, gostore.AspectAll, gostore.Filters{})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}
