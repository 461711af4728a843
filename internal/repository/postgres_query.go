package repository

import (
	"fmt"
	"strings"

	"listing-marketplace/internal/query"
)

// sort fields mapped to their column
var sortColumns = map[string]string{
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"regularPrice":  "regular_price",
	"discountPrice": "discount_price",
	"name":          "name",
	"bedrooms":      "bedrooms",
	"bathrooms":     "bathrooms",
}

type queryBuilder struct {
	conditions []string
	args       []any
	argID      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{argID: 1, args: make([]any, 0)}
}

func (qb *queryBuilder) addCondition(condition string, column string, arg any) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, column, qb.argID))
	qb.args = append(qb.args, arg)
	qb.argID++
}

// nextArg registers arg and returns its placeholder
func (qb *queryBuilder) nextArg(arg any) string {
	placeholder := fmt.Sprintf("$%d", qb.argID)
	qb.args = append(qb.args, arg)
	qb.argID++
	return placeholder
}

func (qb *queryBuilder) where() string {
	if len(qb.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(qb.conditions, " AND ")
}

// applyFilters renders the filter part of params
func applyFilters(p query.Params) *queryBuilder {
	qb := newQueryBuilder()

	if p.SearchTerm != "" {
		qb.addCondition("%s ILIKE $%d", "name", "%"+escapeLike(p.SearchTerm)+"%")
	}
	if p.Type != "" {
		qb.addCondition("%s = $%d", "type", p.Type)
	}
	if p.Offer {
		qb.addCondition("%s = $%d", "offer", true)
	}
	if p.Furnished {
		qb.addCondition("%s = $%d", "furnished", true)
	}
	if p.Parking {
		qb.addCondition("%s = $%d", "parking", true)
	}
	return qb
}

// orderBy always ends with the primary key so pages are stable
func orderBy(p query.Params) string {
	column, ok := sortColumns[p.Sort]
	if !ok {
		column = "created_at"
	}
	dir := "ASC"
	if p.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", column, dir)
}

// buildFindQueries returns the count query and the page query sharing the same filter
func buildFindQueries(p query.Params) (countSQL string, countArgs []any, pageSQL string, pageArgs []any) {
	qb := applyFilters(p)
	where := qb.where()

	countSQL = "SELECT COUNT(*) FROM listings" + where
	countArgs = make([]any, len(qb.args))
	copy(countArgs, qb.args)

	limit := qb.nextArg(p.PageSize())
	offset := qb.nextArg(p.StartIndex)
	pageSQL = "SELECT " + listingColumns + " FROM listings" + where + orderBy(p) +
		" LIMIT " + limit + " OFFSET " + offset
	return countSQL, countArgs, pageSQL, qb.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
