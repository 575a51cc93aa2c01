package postgres

import (
	"fmt"
	"strings"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// productWhere renders the WHERE clause for f with positional arguments
// starting at $1. It returns an empty clause when nothing is filtered.
func productWhere(f repository.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(f.IDs) > 0 {
		conds = append(conds, "p.id = ANY("+next(f.IDs)+")")
	}
	if f.Price != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM offer o WHERE o.product_id = p.id AND o.price = "+next(f.Price)+")")
	}
	if f.Description != "" {
		conds = append(conds, "p.description ILIKE "+next("%"+likeEscaper.Replace(f.Description)+"%")+` ESCAPE '\'`)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// productOrder renders ORDER BY for the requested sorts. p.id is always the
// final tiebreaker so pages are stable.
func productOrder(sorts []repository.Sort) string {
	clauses := make([]string, 0, len(sorts)+1)
	seen := map[repository.SortField]bool{}
	for _, s := range sorts {
		if seen[s.Field] {
			continue
		}
		var col string
		switch s.Field {
		case repository.SortByID:
			col = "p.id"
		case repository.SortByName:
			col = "p.name"
		default:
			continue
		}
		seen[s.Field] = true
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		clauses = append(clauses, col+" "+dir)
	}
	if !seen[repository.SortByID] {
		clauses = append(clauses, "p.id ASC")
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}

// uniqueIDs drops duplicates while keeping first-seen order.
func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
