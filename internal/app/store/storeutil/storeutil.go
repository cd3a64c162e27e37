// internal/app/store/storeutil/storeutil.go
package storeutil

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Paging defaults and bounds. With both maxima the window arithmetic stays
// far inside int64.
const (
	DefaultLimit int64 = 20
	DefaultPage  int64 = 1
	DefaultSort        = "_id"

	MaxLimit int64 = 1000
	MaxPage  int64 = 1000000
)

// ErrInvalidField is returned for field or sort names Mongo would treat as operators.
var ErrInvalidField = errors.New("invalid field name")

// window applies the defaults and bounds to limit and page.
func window(limit, page int64) (int64, int64) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	switch {
	case page <= 0:
		page = DefaultPage
	case page > MaxPage:
		page = MaxPage
	}
	return limit, page
}

// Paginate returns *options.FindOptions with skip/limit given a 1-based page.
// Out-of-range values are clamped.
func Paginate(limit, page int64) *options.FindOptions {
	limit, page = window(limit, page)
	sk := (page - 1) * limit
	return options.Find().SetLimit(limit).SetSkip(sk)
}

// PageQuery is the projection, sort and window of a paged find.
// Fields and Sort are comma or space separated; a leading "-" excludes a
// field or sorts it descending.
type PageQuery struct {
	Fields string
	Sort   string
	Limit  int64
	Page   int64
}

// Pages describes the page window of a result.
type Pages struct {
	Current int64 `json:"current"`
	Prev    int64 `json:"prev"`
	HasPrev bool  `json:"hasPrev"`
	Next    int64 `json:"next"`
	HasNext bool  `json:"hasNext"`
	Total   int64 `json:"total"`
}

// Items describes the item window of a result.
type Items struct {
	Limit int64 `json:"limit"`
	Begin int64 `json:"begin"`
	End   int64 `json:"end"`
	Total int64 `json:"total"`
}

// Page is the envelope returned by paged list endpoints.
type Page[T any] struct {
	Data  []T   `json:"data"`
	Pages Pages `json:"pages"`
	Items Items `json:"items"`
}

// NewPage builds the envelope for data, the matching total, and the window.
func NewPage[T any](data []T, total, limit, page int64) Page[T] {
	if data == nil {
		data = []T{}
	}
	limit, page = window(limit, page)

	pages := (total + limit - 1) / limit
	end := page * limit
	if end > total {
		end = total
	}

	return Page[T]{
		Data: data,
		Pages: Pages{
			Current: page,
			Prev:    page - 1,
			HasPrev: page-1 != 0,
			Next:    page + 1,
			HasNext: page+1 <= pages,
			Total:   pages,
		},
		Items: Items{
			Limit: limit,
			Begin: page*limit - limit + 1,
			End:   end,
			Total: total,
		},
	}
}

// SplitList splits a comma or space separated list, dropping empty entries.
func SplitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

func checkName(name string) error {
	if name == "" || strings.HasPrefix(name, "$") || strings.Contains(name, "..") ||
		strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidField, name)
	}
	return nil
}

// Projection converts a field list into a projection document.
// "username email" includes, "-password" excludes. Empty input yields nil.
func Projection(fields string) (bson.D, error) {
	names := SplitList(fields)
	if len(names) == 0 {
		return nil, nil
	}
	proj := make(bson.D, 0, len(names))
	for _, n := range names {
		v := 1
		if strings.HasPrefix(n, "-") {
			n, v = n[1:], 0
		}
		if err := checkName(n); err != nil {
			return nil, err
		}
		proj = append(proj, bson.E{Key: n, Value: v})
	}
	return proj, nil
}

// SortSpec converts a sort list into a sort document.
// "-name _id" sorts by name descending then _id ascending.
func SortSpec(sort string) (bson.D, error) {
	names := SplitList(sort)
	if len(names) == 0 {
		names = []string{DefaultSort}
	}
	spec := make(bson.D, 0, len(names))
	for _, n := range names {
		v := 1
		if strings.HasPrefix(n, "-") {
			n, v = n[1:], -1
		}
		if err := checkName(n); err != nil {
			return nil, err
		}
		spec = append(spec, bson.E{Key: n, Value: v})
	}
	return spec, nil
}

// PagedFind runs filter against c and returns one page of results with the
// total count of matching documents.
func PagedFind[T any](ctx context.Context, c *mongo.Collection, filter any, q PageQuery) (Page[T], error) {
	if filter == nil {
		filter = bson.D{}
	}
	proj, err := Projection(q.Fields)
	if err != nil {
		return Page[T]{}, err
	}
	sort, err := SortSpec(q.Sort)
	if err != nil {
		return Page[T]{}, err
	}

	total, err := c.CountDocuments(ctx, filter)
	if err != nil {
		return Page[T]{}, err
	}

	opts := Paginate(q.Limit, q.Page).SetSort(sort)
	if proj != nil {
		opts.SetProjection(proj)
	}

	cur, err := c.Find(ctx, filter, opts)
	if err != nil {
		return Page[T]{}, err
	}
	defer cur.Close(ctx)

	var data []T
	if err := cur.All(ctx, &data); err != nil {
		return Page[T]{}, err
	}
	return NewPage(data, total, q.Limit, q.Page), nil
}

// FindOneOptions returns find-one options carrying the projection for fields.
func FindOneOptions(fields string) (*options.FindOneOptions, error) {
	proj, err := Projection(fields)
	if err != nil {
		return nil, err
	}
	opts := options.FindOne()
	if proj != nil {
		opts.SetProjection(proj)
	}
	return opts, nil
}
