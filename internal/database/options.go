package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/repository"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ApplyOptions scopes a GORM session to the filters, order and page of the
// given options.
func ApplyOptions(db *gorm.DB, options ...repository.Option) *gorm.DB {
	q := repository.Build(options...)
	db = applyFilters(db, q.Filters())

	for _, s := range q.Sorts() {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Column()}, Desc: s.Descending()})
	}
	if q.Limit() > 0 {
		db = db.Limit(q.Limit())
	}
	if q.Offset() > 0 {
		db = db.Offset(q.Offset())
	}
	return db
}

// ApplyConditions applies only the filters, for COUNT and EXISTS queries.
func ApplyConditions(db *gorm.DB, options ...repository.Option) *gorm.DB {
	return applyFilters(db, repository.Build(options...).Filters())
}

func applyFilters(db *gorm.DB, filters []repository.Filter) *gorm.DB {
	for _, f := range filters {
		col := clause.Column{Name: f.Column()}
		switch f.Operator() {
		case repository.In:
			db = db.Where(fmt.Sprintf("%s IN ?", f.Column()), f.Value())
		case repository.GreaterThan:
			db = db.Where(clause.Gt{Column: col, Value: f.Value()})
		case repository.ContainsFold:
			pattern := "%" + likeEscaper.Replace(strings.ToLower(fmt.Sprint(f.Value()))) + "%"
			db = db.Where(fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, f.Column()), pattern)
		default:
			db = db.Where(clause.Eq{Column: col, Value: f.Value()})
		}
	}
	return db
}
