// Package pgxstore implements gostore.Store on Postgres.
package pgxstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/genomehub/gotermfinder/pkg/gostore"
)

type dbConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store queries the annotation schema through a pgx pool.
type Store struct {
	db dbConn
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

var _ gostore.Store = (*Store)(nil)

// storeErr tags a query failure so callers can match gostore.ErrUnavailable.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, gostore.ErrUnavailable)
}

func (s *Store) FindGenesBySystematicName(ctx context.Context, organism int64, upperNames []string) ([]gostore.GeneMatch, error) {
	return s.queryMatches(ctx, "find genes by systematic name", findBySystematicNameSQL, organism, upperNames)
}

func (s *Store) FindGenesByDisplayName(ctx context.Context, organism int64, upperNames []string) ([]gostore.GeneMatch, error) {
	return s.queryMatches(ctx, "find genes by display name", findByDisplayNameSQL, organism, upperNames)
}

func (s *Store) FindGenesByAlias(ctx context.Context, organism int64, upperNames []string) ([]gostore.GeneMatch, error) {
	return s.queryMatches(ctx, "find genes by alias", findByAliasSQL, organism, upperNames)
}

func (s *Store) queryMatches(ctx context.Context, op, sql string, organism int64, upperNames []string) ([]gostore.GeneMatch, error) {
	if len(upperNames) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, sql, organism, upperNames)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var out []gostore.GeneMatch
	for rows.Next() {
		var m gostore.GeneMatch
		if err := rows.Scan(&m.Matched, &m.Gene.ID, &m.Gene.SystematicName, &m.Gene.DisplayName); err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

func (s *Store) GenesWithAnnotations(ctx context.Context, geneIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(geneIDs))
	for _, id := range geneIDs {
		out[id] = false
	}
	if len(geneIDs) == 0 {
		return out, nil
	}

	rows, err := s.db.Query(ctx, genesWithAnnotationsSQL, geneIDs)
	if err != nil {
		return nil, storeErr("genes with annotations", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("genes with annotations", err)
		}
		out[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("genes with annotations", err)
	}
	return out, nil
}

func (s *Store) DirectAnnotations(ctx context.Context, geneIDs []int64, aspect gostore.Aspect, f gostore.Filters) ([]gostore.Annotation, error) {
	if len(geneIDs) == 0 {
		return nil, nil
	}

	sql := directAnnotationsSQL
	args := []any{geneIDs}
	if aspect != gostore.AspectAll {
		args = append(args, string(aspect))
		sql += fmt.Sprintf(" AND g.go_aspect = $%d", len(args))
	}
	sql, args = appendAnnotationFilters(sql, args, "ga", f)

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeErr("direct annotations", err)
	}
	defer rows.Close()

	var out []gostore.Annotation
	for rows.Next() {
		var a gostore.Annotation
		if err := rows.Scan(&a.GeneID, &a.TermID, &a.Evidence); err != nil {
			return nil, storeErr("direct annotations", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("direct annotations", err)
	}
	return out, nil
}

func (s *Store) AncestorEdges(ctx context.Context, termIDs []int64, aspect gostore.Aspect) ([]gostore.Edge, error) {
	if len(termIDs) == 0 {
		return nil, nil
	}

	sql := ancestorEdgesSQL
	args := []any{termIDs}
	if aspect != gostore.AspectAll {
		args = append(args, string(aspect))
		sql += fmt.Sprintf(" AND anc.go_aspect = $%d", len(args))
	}
	return s.queryEdges(ctx, "ancestor edges", sql, args...)
}

func (s *Store) DirectEdges(ctx context.Context, termIDs []int64) ([]gostore.Edge, error) {
	if len(termIDs) == 0 {
		return nil, nil
	}
	return s.queryEdges(ctx, "direct edges", directEdgesSQL, termIDs)
}

func (s *Store) queryEdges(ctx context.Context, op, sql string, args ...any) ([]gostore.Edge, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var out []gostore.Edge
	for rows.Next() {
		var e gostore.Edge
		if err := rows.Scan(&e.ChildID, &e.AncestorID, &e.Generation, &e.Relationship); err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

func (s *Store) DefaultBackground(ctx context.Context, organism int64, f gostore.Filters) ([]int64, error) {
	sql := defaultBackgroundSQL
	args := []any{organism}
	sql, args = appendAnnotationFilters(sql, args, "ga", f)

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeErr("default background", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("default background", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("default background", err)
	}
	return out, nil
}

func (s *Store) Terms(ctx context.Context, termIDs []int64) ([]gostore.Term, error) {
	if len(termIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, termsSQL, termIDs)
	if err != nil {
		return nil, storeErr("terms", err)
	}
	defer rows.Close()

	var out []gostore.Term
	for rows.Next() {
		var t gostore.Term
		var aspect string
		if err := rows.Scan(&t.ID, &t.GOID, &t.Name, &aspect); err != nil {
			return nil, storeErr("terms", err)
		}
		t.Aspect = gostore.Aspect(aspect)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("terms", err)
	}
	return out, nil
}

func (s *Store) Genes(ctx context.Context, geneIDs []int64) ([]gostore.Gene, error) {
	if len(geneIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, genesSQL, geneIDs)
	if err != nil {
		return nil, storeErr("genes", err)
	}
	defer rows.Close()

	var out []gostore.Gene
	for rows.Next() {
		var g gostore.Gene
		if err := rows.Scan(&g.ID, &g.SystematicName, &g.DisplayName); err != nil {
			return nil, storeErr("genes", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("genes", err)
	}
	return out, nil
}

// Organisms lists only organisms that carry GO annotations.
func (s *Store) Organisms(ctx context.Context) ([]gostore.Organism, error) {
	rows, err := s.db.Query(ctx, organismsSQL)
	if err != nil {
		return nil, storeErr("organisms", err)
	}
	defer rows.Close()

	var out []gostore.Organism
	for rows.Next() {
		var o gostore.Organism
		var order int
		if err := rows.Scan(&o.ID, &o.Name, &order); err != nil {
			return nil, storeErr("organisms", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("organisms", err)
	}
	return out, nil
}

func (s *Store) EvidenceCodes(ctx context.Context) ([]gostore.EvidenceCode, error) {
	rows, err := s.db.Query(ctx, evidenceCodesSQL)
	if err != nil {
		return nil, storeErr("evidence codes", err)
	}
	defer rows.Close()

	var out []gostore.EvidenceCode
	for rows.Next() {
		var c gostore.EvidenceCode
		if err := rows.Scan(&c.Code, &c.Description); err != nil {
			return nil, storeErr("evidence codes", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("evidence codes", err)
	}
	return out, nil
}

// appendAnnotationFilters adds evidence and annotation type predicates for
// the aliased go_annotation table.
func appendAnnotationFilters(sql string, args []any, alias string, f gostore.Filters) (string, []any) {
	var b strings.Builder
	b.WriteString(sql)
	if len(f.EvidenceCodes) > 0 {
		args = append(args, f.EvidenceCodes)
		fmt.Fprintf(&b, " AND %s.go_evidence = ANY($%d)", alias, len(args))
	}
	if len(f.AnnotationTypes) > 0 {
		args = append(args, f.AnnotationTypes)
		fmt.Fprintf(&b, " AND %s.annotation_type = ANY($%d)", alias, len(args))
	}
	return b.String(), args
}

const findBySystematicNameSQL = `
SELECT upper(f.feature_name), f.feature_no, f.feature_name, COALESCE(f.gene_name, '')
FROM feature f
WHERE f.organism_no = $1
  AND upper(f.feature_name) = ANY($2)`

const findByDisplayNameSQL = `
SELECT upper(f.gene_name), f.feature_no, f.feature_name, COALESCE(f.gene_name, '')
FROM feature f
WHERE f.organism_no = $1
  AND f.gene_name IS NOT NULL
  AND upper(f.gene_name) = ANY($2)`

const findByAliasSQL = `
SELECT upper(a.alias_name), f.feature_no, f.feature_name, COALESCE(f.gene_name, '')
FROM feature f
JOIN feat_alias fa ON fa.feature_no = f.feature_no
JOIN alias a ON a.alias_no = fa.alias_no
WHERE f.organism_no = $1
  AND upper(a.alias_name) = ANY($2)`

const genesWithAnnotationsSQL = `
SELECT DISTINCT ga.feature_no
FROM go_annotation ga
WHERE ga.feature_no = ANY($1)`

const directAnnotationsSQL = `
SELECT ga.feature_no, ga.go_no, ga.go_evidence
FROM go_annotation ga
JOIN go g ON g.go_no = ga.go_no
WHERE ga.feature_no = ANY($1)`

const ancestorEdgesSQL = `
SELECT gp.child_go_no, gp.ancestor_go_no, gp.generation, COALESCE(gp.relationship_type, '')
FROM go_path gp
JOIN go anc ON anc.go_no = gp.ancestor_go_no
WHERE gp.child_go_no = ANY($1)`

const directEdgesSQL = `
SELECT gp.child_go_no, gp.ancestor_go_no, gp.generation, COALESCE(gp.relationship_type, '')
FROM go_path gp
WHERE gp.child_go_no = ANY($1)
  AND gp.generation = 1`

const defaultBackgroundSQL = `
SELECT DISTINCT ga.feature_no
FROM go_annotation ga
JOIN feature f ON f.feature_no = ga.feature_no
WHERE f.organism_no = $1`

const termsSQL = `
SELECT g.go_no, g.goid, g.go_term, g.go_aspect
FROM go g
WHERE g.go_no = ANY($1)`

const genesSQL = `
SELECT f.feature_no, f.feature_name, COALESCE(f.gene_name, '')
FROM feature f
WHERE f.feature_no = ANY($1)`

const organismsSQL = `
SELECT DISTINCT o.organism_no, o.organism_name, o.organism_order
FROM organism o
JOIN feature f ON f.organism_no = o.organism_no
JOIN go_annotation ga ON ga.feature_no = f.feature_no
ORDER BY o.organism_order`

const evidenceCodesSQL = `
SELECT c.code_value, COALESCE(c.description, '')
FROM code c
WHERE c.tab_name = 'GO_ANNOTATION'
  AND c.col_name = 'GO_EVIDENCE'
ORDER BY c.code_value`
