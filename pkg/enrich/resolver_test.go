package enrich

import (
	"context"
	"testing"

	"github.com/genomehub/gotermfinder/pkg/gostore"
)

func resolverStore() *fakeStore {
	return &fakeStore{
		genes: map[int64]gostore.Gene{
			1: {ID: 1, SystematicName: "YPL250C", DisplayName: "ICY2"},
			2: {ID: 2, SystematicName: "YDR099W", DisplayName: "BMH2"},
			3: {ID: 3, SystematicName: "YER177W", DisplayName: "BMH1"},
		},
		aliases: map[string][]int64{
			"APR6": {2},
		},
		annotations: []fakeAnnotation{
			{Annotation: gostore.Annotation{GeneID: 1, TermID: 100, Evidence: "IDA"}},
			{Annotation: gostore.Annotation{GeneID: 2, TermID: 100, Evidence: "IMP"}},
		},
		terms: map[int64]gostore.Term{
			100: {ID: 100, GOID: 16192, Name: "vesicle-mediated transport", Aspect: gostore.AspectProcess},
		},
	}
}

func TestResolveCaseInsensitiveDedupe(t *testing.T) {
	store := resolverStore()
	res, err := Resolve(context.Background(), store, 1, []string{"YPL250C", "ypl250c", "YpL250c"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(res.Found) != 1 {
		t.Fatalf("expected one resolved gene, got %d", len(res.Found))
	}
	if res.Found[0].GeneID != 1 {
		t.Fatalf("expected gene 1, got %d", res.Found[0].GeneID)
	}
	if len(res.NotFound) != 0 {
		t.Fatalf("expected no unresolved inputs, got %v", res.NotFound)
	}
	if res.TotalSubmitted != 3 {
		t.Fatalf("expected 3 submitted, got %d", res.TotalSubmitted)
	}
}

func TestResolveStrategyOrder(t *testing.T) {
	store := resolverStore()
	res, err := Resolve(context.Background(), store, 1, []string{"bmh2", "apr6"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	// Both inputs resolve to gene 2; the display name wins and the alias
	// collapses into the same record.
	if len(res.Found) != 1 {
		t.Fatalf("expected one resolved gene, got %d", len(res.Found))
	}
	if res.Found[0].GeneID != 2 {
		t.Fatalf("expected gene 2, got %d", res.Found[0].GeneID)
	}
	if res.Found[0].Input != "bmh2" {
		t.Fatalf("expected first-seen input preserved, got %q", res.Found[0].Input)
	}
}

func TestResolveNotFoundIsData(t *testing.T) {
	store := resolverStore()
	res, err := Resolve(context.Background(), store, 1, []string{"YER177W", "NOSUCHGENE", "  ", ""})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(res.Found) != 1 || res.Found[0].GeneID != 3 {
		t.Fatalf("expected only YER177W resolved, got %+v", res.Found)
	}
	if len(res.NotFound) != 1 || res.NotFound[0] != "NOSUCHGENE" {
		t.Fatalf("expected NOSUCHGENE unresolved, got %v", res.NotFound)
	}
	if res.Found[0].HasAnnotations {
		t.Fatalf("YER177W has no annotations in the fixture")
	}
}

func TestResolveAnnotationFlag(t *testing.T) {
	store := resolverStore()
	res, err := Resolve(context.Background(), store, 1, []string{"ICY2", "BMH1"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.TotalFound != 2 {
		t.Fatalf("expected 2 found, got %d", res.TotalFound)
	}
	if res.TotalWithAnnotations != 1 {
		t.Fatalf("expected 1 with annotations, got %d", res.TotalWithAnnotations)
	}
	for _, g := range res.Found {
		want := g.GeneID == 1
		if g.HasAnnotations != want {
			t.Fatalf("gene %d annotation flag: got %v want %v", g.GeneID, g.HasAnnotations, want)
		}
	}
}

func TestResolvePropagatesStoreError(t *testing.T) {
	store := resolverStore()
	store.err = gostore.ErrUnavailable
	if _, err := Resolve(context.Background(), store, 1, []string{"YPL250C"}); err == nil {
		t.Fatalf("expected store error to propagate")
	}
}
