// Package listquery parses the shared paging parameters of list endpoints:
// fields, sort, limit and page.
package listquery

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/strataadmin/internal/app/store/storeutil"
	"github.com/dalemusser/strataadmin/internal/app/system/inputval"
	"github.com/dalemusser/strataadmin/internal/app/system/normalize"
	"github.com/dalemusser/waffle/pantry/query"
)

// Get returns the trimmed query parameter key.
func Get(r *http.Request, key string) string {
	return normalize.QueryParam(query.Get(r, key))
}

// Parse reads fields, sort, limit and page from the request, applying the
// store defaults. Invalid numbers are reported as field errors.
func Parse(r *http.Request) (storeutil.PageQuery, error) {
	res := &inputval.Result{}
	q := storeutil.PageQuery{
		Fields: Get(r, "fields"),
		Sort:   Get(r, "sort"),
		Limit:  positive(res, r, "limit", "Limit", storeutil.DefaultLimit, storeutil.MaxLimit),
		Page:   positive(res, r, "page", "Page", storeutil.DefaultPage, storeutil.MaxPage),
	}
	if q.Sort == "" {
		q.Sort = storeutil.DefaultSort
	}
	if err := res.Err(); err != nil {
		return storeutil.PageQuery{}, err
	}
	return q, nil
}

// positive parses key as an integer in [1, upper], or returns def when absent.
func positive(res *inputval.Result, r *http.Request, key, label string, def, upper int64) int64 {
	raw := Get(r, key)
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if errors.Is(err, strconv.ErrRange) && raw[0] != '-' {
		n, err = upper+1, nil
	}
	switch {
	case err != nil || n < 1:
		res.Add(key, label, label+" must be a positive whole number.")
		return def
	case n > upper:
		res.Add(key, label, label+" must be at most "+strconv.FormatInt(upper, 10)+".")
		return def
	}
	return n
}
