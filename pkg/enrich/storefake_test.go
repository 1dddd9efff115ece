package enrich

import (
	"context"
	"strings"

	"github.com/genomehub/gotermfinder/pkg/gostore"
)

// fakeAnnotation extends a direct annotation with the store-side annotation
// type so filter behavior can be exercised.
type fakeAnnotation struct {
	gostore.Annotation
	Type string
}

// fakeStore is a single-organism in-memory store. The organism argument is
// ignored; tests model one genome at a time.
type fakeStore struct {
	genes       map[int64]gostore.Gene
	aliases     map[string][]int64 // upper alias -> gene ids
	terms       map[int64]gostore.Term
	annotations []fakeAnnotation
	edges       []gostore.Edge // transitive closure, Generation set
	background  []int64        // nil derives from annotations
	organisms   []gostore.Organism
	codes       []gostore.EvidenceCode

	err error // non-nil fails every call
}

func (f *fakeStore) FindGenesBySystematicName(_ context.Context, _ int64, upperNames []string) ([]gostore.GeneMatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []gostore.GeneMatch
	for _, name := range upperNames {
		for _, g := range f.genes {
			if strings.ToUpper(g.SystematicName) == name {
				out = append(out, gostore.GeneMatch{Matched: name, Gene: g})
			}
		}
	}
	return out, nil
}

func (f *fakeStore) FindGenesByDisplayName(_ context.Context, _ int64, upperNames []string) ([]gostore.GeneMatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []gostore.GeneMatch
	for _, name := range upperNames {
		for _, g := range f.genes {
			if g.DisplayName != "" && strings.ToUpper(g.DisplayName) == name {
				out = append(out, gostore.GeneMatch{Matched: name, Gene: g})
			}
		}
	}
	return out, nil
}

func (f *fakeStore) FindGenesByAlias(_ context.Context, _ int64, upperNames []string) ([]gostore.GeneMatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []gostore.GeneMatch
	for _, name := range upperNames {
		for _, id := range f.aliases[name] {
			if g, ok := f.genes[id]; ok {
				out = append(out, gostore.GeneMatch{Matched: name, Gene: g})
			}
		}
	}
	return out, nil
}

func (f *fakeStore) GenesWithAnnotations(_ context.Context, geneIDs []int64) (map[int64]bool, error) {
	if f.err != nil {
		return nil, f.err
	}
	annotated := make(map[int64]bool)
	for _, a := range f.annotations {
		annotated[a.GeneID] = true
	}
	out := make(map[int64]bool, len(geneIDs))
	for _, id := range geneIDs {
		out[id] = annotated[id]
	}
	return out, nil
}

func (f *fakeStore) DirectAnnotations(_ context.Context, geneIDs []int64, aspect gostore.Aspect, filters gostore.Filters) ([]gostore.Annotation, error) {
	if f.err != nil {
		return nil, f.err
	}
	wanted := make(map[int64]bool, len(geneIDs))
	for _, id := range geneIDs {
		wanted[id] = true
	}
	var out []gostore.Annotation
	for _, a := range f.annotations {
		if !wanted[a.GeneID] {
			continue
		}
		if !f.annotationMatches(a, aspect, filters) {
			continue
		}
		out = append(out, a.Annotation)
	}
	return out, nil
}

func (f *fakeStore) annotationMatches(a fakeAnnotation, aspect gostore.Aspect, filters gostore.Filters) bool {
	if aspect != gostore.AspectAll {
		term, ok := f.terms[a.TermID]
		if !ok || term.Aspect != aspect {
			return false
		}
	}
	if len(filters.EvidenceCodes) > 0 && !contains(filters.EvidenceCodes, a.Evidence) {
		return false
	}
	if len(filters.AnnotationTypes) > 0 && !contains(filters.AnnotationTypes, a.Type) {
		return false
	}
	return true
}

func (f *fakeStore) AncestorEdges(_ context.Context, termIDs []int64, aspect gostore.Aspect) ([]gostore.Edge, error) {
	if f.err != nil {
		return nil, f.err
	}
	wanted := make(map[int64]bool, len(termIDs))
	for _, id := range termIDs {
		wanted[id] = true
	}
	var out []gostore.Edge
	for _, e := range f.edges {
		if !wanted[e.ChildID] {
			continue
		}
		if aspect != gostore.AspectAll {
			ancestor, ok := f.terms[e.AncestorID]
			if !ok || ancestor.Aspect != aspect {
				continue
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) DirectEdges(_ context.Context, termIDs []int64) ([]gostore.Edge, error) {
	if f.err != nil {
		return nil, f.err
	}
	wanted := make(map[int64]bool, len(termIDs))
	for _, id := range termIDs {
		wanted[id] = true
	}
	var out []gostore.Edge
	for _, e := range f.edges {
		if e.Generation == 1 && wanted[e.ChildID] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) DefaultBackground(_ context.Context, _ int64, filters gostore.Filters) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.background != nil {
		return f.background, nil
	}
	seen := make(map[int64]bool)
	var out []int64
	for _, a := range f.annotations {
		if seen[a.GeneID] {
			continue
		}
		if !f.annotationMatches(a, gostore.AspectAll, filters) {
			continue
		}
		seen[a.GeneID] = true
		out = append(out, a.GeneID)
	}
	return out, nil
}

func (f *fakeStore) Terms(_ context.Context, termIDs []int64) ([]gostore.Term, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []gostore.Term
	for _, id := range termIDs {
		if t, ok := f.terms[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) Genes(_ context.Context, geneIDs []int64) ([]gostore.Gene, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []gostore.Gene
	for _, id := range geneIDs {
		if g, ok := f.genes[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStore) Organisms(_ context.Context) ([]gostore.Organism, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.organisms, nil
}

func (f *fakeStore) EvidenceCodes(_ context.Context) ([]gostore.EvidenceCode, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.codes, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

var _ gostore.Store = (*fakeStore)(nil)
