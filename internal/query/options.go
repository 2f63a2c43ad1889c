package query

import (
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Options is a parsed feed query: text search, category axis, sort
// direction, and a page window. Built once at the request boundary and
// applied opaquely to the store query.
type Options struct {
	Text     TextFilter
	Category CategoryFilter
	Oldest   bool
	Page     int
	Limit    int
}

// ParseOptions reads q, regex, sort, page, and limit from the query string.
// When withCategory is set, cat is parsed too; global search has no category
// axis. The regex flag follows the original contract: its presence, not its
// value, selects regex mode.
func ParseOptions(values url.Values, withCategory bool) (Options, error) {
	opts := Options{
		Page:  ParsePage(values.Get("page")),
		Limit: ParseLimit(values.Get("limit")),
	}

	if strings.ToLower(values.Get("sort")) == "oldest" {
		opts.Oldest = true
	}

	text, err := NewTextFilter(values.Get("q"), values.Has("regex"))

	if err != nil {
		return Options{}, err
	}

	opts.Text = text

	if withCategory && values.Has("cat") {
		category, err := ParseCategoryFilter(values.Get("cat"))

		if err != nil {
			return Options{}, err
		}

		opts.Category = category
	}

	return opts, nil
}

func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)

	if err != nil || page < 1 {
		return 1
	}

	return page
}

func ParseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)

	if err != nil {
		return DefaultLimit
	}

	if limit < 1 {
		return 1
	}

	if limit > MaxLimit {
		return MaxLimit
	}

	return limit
}

// Apply composes the full query: text match over searchColumns, category
// axis, a deterministic order on timeColumn with id as tie-break, and the
// page window. The caller has already scoped tx to the view (owner, answered
// state).
func (o Options) Apply(tx *gorm.DB, timeColumn string, searchColumns ...string) *gorm.DB {
	tx = o.Text.Apply(tx, searchColumns...)
	tx = o.Category.Apply(tx)

	dir := "DESC"
	if o.Oldest {
		dir = "ASC"
	}

	return tx.
		Order(timeColumn + " " + dir).
		Order("id " + dir).
		Offset((o.Page - 1) * o.Limit).
		Limit(o.Limit)
}
