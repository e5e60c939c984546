package queries

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/postboard/validators"
)

// ListSpec is everything a list query can ask for. Limit always applies to
// items, so a zero Limit yields an empty page.
type ListSpec struct {
	Sort       *validators.OrderBy
	Email      *string
	NameSubstr *string
	Author     *int
	Limit      int
	Offset     int
}

// Envelope separates the full filtered, sorted collection from its page.
type Envelope[T any] struct {
	TotalCount []T `json:"total_count"`
	Items      []T `json:"items"`
}

// sortColumns is the whitelist of sortable columns; posts sort by their owner's fields.
var sortColumns = map[validators.SortField]clause.Column{
	validators.SortName:     {Table: "users", Name: "name"},
	validators.SortLastName: {Table: "users", Name: "last_name"},
	validators.SortEmail:    {Table: "users", Name: "email"},
}

// UserSpec maps validated user list parameters onto a ListSpec. ID is handled by GetUser.
func UserSpec(p validators.UserListParams) ListSpec {
	return ListSpec{
		Sort:       p.OrderBy,
		Email:      p.Email,
		NameSubstr: p.NameSubstr,
		Limit:      p.Limit,
		Offset:     p.Offset,
	}
}

// PostSpec maps validated post list parameters onto a ListSpec.
func PostSpec(p validators.PostListParams) ListSpec {
	return ListSpec{
		Sort:   p.OrderBy,
		Author: p.Author,
		Limit:  p.Limit,
		Offset: p.Offset,
	}
}

// filtered applies the equality and substring filters.
func (s ListSpec) filtered(db *gorm.DB) *gorm.DB {
	if s.Email != nil {
		db = db.Where("users.email = ?", *s.Email)
	}
	if s.NameSubstr != nil {
		db = db.Where(substringCondition(db.Dialector.Name()), *s.NameSubstr)
	}
	if s.Author != nil {
		db = db.Where("posts.author = ?", *s.Author)
	}
	return db
}

// sorted orders by the requested column, then by pk in the same direction so a
// descending sort is the exact reverse of the ascending one.
func (s ListSpec) sorted(pk clause.Column) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.Sort != nil {
			if col, ok := sortColumns[s.Sort.Field]; ok {
				return db.
					Order(clause.OrderByColumn{Column: col, Desc: s.Sort.Desc}).
					Order(clause.OrderByColumn{Column: pk, Desc: s.Sort.Desc})
			}
		}
		return db.Order(clause.OrderByColumn{Column: pk})
	}
}

// substringCondition is a case-sensitive "name contains ?" for each dialect;
// LIKE folds case on mysql and sqlite.
func substringCondition(dialect string) string {
	switch dialect {
	case "mysql":
		return "INSTR(BINARY users.name, ?) > 0"
	case "postgres":
		return "strpos(users.name, ?) > 0"
	default:
		return "instr(users.name, ?) > 0"
	}
}
