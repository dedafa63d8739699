// Package sqlfilter renders search predicates as parameterised SQL for gorm.
package sqlfilter

import (
	"strings"

	"gorm.io/gorm/clause"

	"github.com/kailas-cloud/gigmarket/internal/domain/search/filter"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so s matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Disjunction renders d as a single parenthesised OR expression.
// ok is false when d has no terms.
func Disjunction(d filter.Disjunction) (clause.Expr, bool) {
	if d.IsEmpty() {
		return clause.Expr{}, false
	}
	var r renderer
	r.disjunction(d.Terms())
	return clause.Expr{SQL: r.sql.String(), Vars: r.vars}, true
}

type renderer struct {
	sql  strings.Builder
	vars []any
}

func (r *renderer) disjunction(terms []filter.Predicate) {
	if len(terms) == 0 {
		r.sql.WriteString("FALSE")
		return
	}
	r.sql.WriteByte('(')
	for i, p := range terms {
		if i > 0 {
			r.sql.WriteString(" OR ")
		}
		r.predicate(p)
	}
	r.sql.WriteByte(')')
}

func (r *renderer) predicate(p filter.Predicate) {
	col := clause.Column{Name: string(p.Field())}
	switch p.Kind() {
	case filter.KindAtLeast:
		r.sql.WriteString("? >= ?")
		r.vars = append(r.vars, col, p.Min())
	case filter.KindContains:
		r.sql.WriteString("? ILIKE ?")
		r.vars = append(r.vars, col, "%"+EscapeLike(p.Text())+"%")
	case filter.KindHas:
		r.sql.WriteString("? = ANY(?)")
		r.vars = append(r.vars, p.Text(), col)
	case filter.KindAny:
		r.disjunction(p.Any())
	default:
		r.sql.WriteString("FALSE")
	}
}
