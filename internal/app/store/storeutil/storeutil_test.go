package storeutil

import (
	"errors"
	"math"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name               string
		total, limit, page int64
		wantPages          Pages
		wantBegin, wantEnd int64
	}{
		{
			name: "first of three", total: 45, limit: 20, page: 1,
			wantPages: Pages{Current: 1, Prev: 0, HasPrev: false, Next: 2, HasNext: true, Total: 3},
			wantBegin: 1, wantEnd: 20,
		},
		{
			name: "last partial page", total: 45, limit: 20, page: 3,
			wantPages: Pages{Current: 3, Prev: 2, HasPrev: true, Next: 4, HasNext: false, Total: 3},
			wantBegin: 41, wantEnd: 45,
		},
		{
			name: "exact fit", total: 40, limit: 20, page: 2,
			wantPages: Pages{Current: 2, Prev: 1, HasPrev: true, Next: 3, HasNext: false, Total: 2},
			wantBegin: 21, wantEnd: 40,
		},
		{
			name: "empty", total: 0, limit: 20, page: 1,
			wantPages: Pages{Current: 1, Prev: 0, HasPrev: false, Next: 2, HasNext: false, Total: 0},
			wantBegin: 1, wantEnd: 0,
		},
		{
			name: "defaults", total: 5, limit: 0, page: 0,
			wantPages: Pages{Current: 1, Prev: 0, HasPrev: false, Next: 2, HasNext: false, Total: 1},
			wantBegin: 1, wantEnd: 5,
		},
		{
			name: "huge limit is clamped", total: 5, limit: math.MaxInt64, page: 1,
			wantPages: Pages{Current: 1, Prev: 0, HasPrev: false, Next: 2, HasNext: false, Total: 1},
			wantBegin: 1, wantEnd: 5,
		},
		{
			name: "huge page is clamped", total: 5, limit: 10, page: 922337203685477580,
			wantPages: Pages{Current: MaxPage, Prev: MaxPage - 1, HasPrev: true, Next: MaxPage + 1, HasNext: false, Total: 1},
			wantBegin: (MaxPage-1)*10 + 1, wantEnd: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage[int](nil, tt.total, tt.limit, tt.page)
			if p.Pages != tt.wantPages {
				t.Errorf("Pages = %+v, want %+v", p.Pages, tt.wantPages)
			}
			if p.Items.Begin != tt.wantBegin || p.Items.End != tt.wantEnd {
				t.Errorf("Items = %+v, want begin %d end %d", p.Items, tt.wantBegin, tt.wantEnd)
			}
			if p.Items.Total != tt.total {
				t.Errorf("Items.Total = %d, want %d", p.Items.Total, tt.total)
			}
			if p.Data == nil {
				t.Error("Data should be an empty slice, not nil")
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" username, email  roles,,")
	want := []string{"username", "email", "roles"}
	if len(got) != len(want) {
		t.Fatalf("SplitList() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SplitList()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestProjection(t *testing.T) {
	got, err := Projection("username email -password")
	if err != nil {
		t.Fatalf("Projection() error = %v", err)
	}
	want := bson.D{{Key: "username", Value: 1}, {Key: "email", Value: 1}, {Key: "password", Value: 0}}
	if len(got) != len(want) {
		t.Fatalf("Projection() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Projection()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if p, err := Projection(""); err != nil || p != nil {
		t.Errorf("Projection(\"\") = %v, %v, want nil, nil", p, err)
	}
}

func TestSortSpec(t *testing.T) {
	got, err := SortSpec("-name,_id")
	if err != nil {
		t.Fatalf("SortSpec() error = %v", err)
	}
	want := bson.D{{Key: "name", Value: -1}, {Key: "_id", Value: 1}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SortSpec()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	def, err := SortSpec("")
	if err != nil || len(def) != 1 || def[0].Key != "_id" {
		t.Errorf("SortSpec(\"\") = %v, %v, want _id ascending", def, err)
	}
}

func TestInvalidFieldNames(t *testing.T) {
	for _, in := range []string{"$where", "-$gt", "a..b", ".a", "a.", "-"} {
		if _, err := Projection(in); !errors.Is(err, ErrInvalidField) {
			t.Errorf("Projection(%q) error = %v, want ErrInvalidField", in, err)
		}
		if _, err := SortSpec(in); !errors.Is(err, ErrInvalidField) {
			t.Errorf("SortSpec(%q) error = %v, want ErrInvalidField", in, err)
		}
	}
}

func TestPaginate(t *testing.T) {
	opts := Paginate(10, 3)
	if *opts.Limit != 10 || *opts.Skip != 20 {
		t.Errorf("Paginate(10, 3) = limit %d skip %d, want 10, 20", *opts.Limit, *opts.Skip)
	}
	opts = Paginate(0, 0)
	if *opts.Limit != DefaultLimit || *opts.Skip != 0 {
		t.Errorf("Paginate(0, 0) = limit %d skip %d, want %d, 0", *opts.Limit, *opts.Skip, DefaultLimit)
	}
	opts = Paginate(math.MaxInt64, 922337203685477580)
	if *opts.Limit != MaxLimit || *opts.Skip != (MaxPage-1)*MaxLimit {
		t.Errorf("Paginate(max, huge) = limit %d skip %d, want %d, %d", *opts.Limit, *opts.Skip, MaxLimit, (MaxPage-1)*MaxLimit)
	}
}
