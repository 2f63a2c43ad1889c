package query

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrInvalidRegex    = errors.New("Invalid regex query")
	ErrInvalidCategory = errors.New("Invalid category id")
)

type textMode int

const (
	textNone textMode = iota
	textRegex
	textTerms
)

// TextFilter is the search half of a feed query: either a validated regular
// expression matched case-insensitively in the database, or a set of
// lowercased terms each of which must appear in one of the searched columns.
type TextFilter struct {
	mode    textMode
	pattern string
	terms   []string
}

// NewTextFilter validates and builds a filter from raw query input. The
// pattern is compiled once here; an invalid regex never reaches the store.
func NewTextFilter(q string, regex bool) (TextFilter, error) {
	q = strings.TrimSpace(q)

	if q == "" {
		return TextFilter{}, nil
	}

	if regex {
		if _, err := regexp.Compile(q); err != nil {
			return TextFilter{}, ErrInvalidRegex
		}
		return TextFilter{mode: textRegex, pattern: q}, nil
	}

	return TextFilter{mode: textTerms, terms: strings.Fields(strings.ToLower(q))}, nil
}

func (f TextFilter) IsZero() bool {
	return f.mode == textNone
}

// Apply narrows tx to rows where the filter matches at least one of the
// given columns.
func (f TextFilter) Apply(tx *gorm.DB, columns ...string) *gorm.DB {
	switch f.mode {
	case textRegex:
		clauses := make([]string, 0, len(columns))
		args := make([]interface{}, 0, len(columns))
		for _, col := range columns {
			clauses = append(clauses, col+" ~* ?")
			args = append(args, f.pattern)
		}
		return tx.Where(strings.Join(clauses, " OR "), args...)
	case textTerms:
		for _, term := range f.terms {
			clauses := make([]string, 0, len(columns))
			args := make([]interface{}, 0, len(columns))
			for _, col := range columns {
				clauses = append(clauses, "LOWER("+col+") LIKE ?")
				args = append(args, "%"+term+"%")
			}
			tx = tx.Where(strings.Join(clauses, " OR "), args...)
		}
		return tx
	}
	return tx
}

// CategoryFilter selects a category axis for inbox and feed views. The zero
// value means no restriction ("all"); general is the absence of a category
// reference, not a stored id.
type CategoryFilter struct {
	set     bool
	general bool
	id      uint
}

// ParseCategoryFilter interprets the raw cat parameter. "all" lifts the
// restriction, "" and "general" select questions without a category, and a
// numeric id selects that category. Anything else is rejected.
func ParseCategoryFilter(raw string) (CategoryFilter, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))

	switch raw {
	case "all":
		return CategoryFilter{}, nil
	case "", "general":
		return CategoryFilter{set: true, general: true}, nil
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return CategoryFilter{}, ErrInvalidCategory
	}

	return CategoryFilter{set: true, id: uint(id)}, nil
}

// ID returns the concrete category id when one was requested, for ownership
// checks at the boundary.
func (f CategoryFilter) ID() (uint, bool) {
	if f.set && !f.general {
		return f.id, true
	}
	return 0, false
}

func (f CategoryFilter) Apply(tx *gorm.DB) *gorm.DB {
	if !f.set {
		return tx
	}
	if f.general {
		return tx.Where("category_id IS NULL")
	}
	return tx.Where("category_id = ?", f.id)
}
