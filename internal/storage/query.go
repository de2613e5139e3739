package storage

import (
	"fmt"
	"strings"

	"fluxo/internal/core"
)

// predicates composes a WHERE clause from optional criteria. Values are
// always bound as parameters.
type predicates struct {
	clauses []string
	args    []any
}

func (p *predicates) add(clause string, args ...any) {
	p.clauses = append(p.clauses, clause)
	p.args = append(p.args, args...)
}

// where renders " WHERE a AND b", or "" when nothing was added.
func (p *predicates) where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.clauses, " AND ")
}

// period restricts dateCol to a month and/or a year.
func (p *predicates) period(dateCol string, period core.Period) {
	if period.Month != 0 {
		p.add(fmt.Sprintf("strftime('%%m', %s) = ?", dateCol), fmt.Sprintf("%02d", period.Month))
	}
	if period.Year != 0 {
		p.add(fmt.Sprintf("strftime('%%Y', %s) = ?", dateCol), fmt.Sprintf("%04d", period.Year))
	}
}

func (p *predicates) kind(kindCol string, kind core.Kind) {
	if kind != "" {
		p.add(kindCol+" = ?", string(kind))
	}
}

func transactionPredicates(prefix string, f core.TransactionFilter) *predicates {
	p := &predicates{}
	p.period(prefix+"data", f.Period)
	p.kind(prefix+"tipo", f.Kind)
	return p
}
