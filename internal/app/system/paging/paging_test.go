package paging_test

import (
	"net/http/httptest"
	"testing"

	"github.com/skillsync/skillsync/internal/app/system/paging"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", paging.PageSize},
		{"limit=5", 5},
		{"limit=1", 1},
		{"limit=0", paging.PageSize},
		{"limit=-3", paging.PageSize},
		{"limit=999", paging.PageSize},
		{"limit=abc", paging.PageSize},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/?"+tt.query, nil)
		if got := paging.ParseLimit(r); got != tt.want {
			t.Errorf("ParseLimit(%q): got %d, want %d", tt.query, got, tt.want)
		}
	}
}

func page(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestTrimPage_Forward(t *testing.T) {
	// First page, exactly full look-ahead: one extra row means next page.
	rows := page(paging.PageSize + 1)
	res := paging.TrimPage(&rows, "", "")
	if len(rows) != paging.PageSize {
		t.Errorf("rows: got %d, want %d", len(rows), paging.PageSize)
	}
	if !res.HasNext || res.HasPrev {
		t.Errorf("flags: %+v", res)
	}

	// Short page: no next.
	rows = page(3)
	res = paging.TrimPage(&rows, "", "")
	if len(rows) != 3 || res.HasNext || res.HasPrev {
		t.Errorf("short page: rows=%d flags=%+v", len(rows), res)
	}

	// After cursor implies a previous page exists.
	rows = page(3)
	res = paging.TrimPage(&rows, "", "cursor")
	if !res.HasPrev {
		t.Error("after cursor should set HasPrev")
	}
}

func TestTrimPage_Backward(t *testing.T) {
	rows := page(paging.PageSize + 1)
	res := paging.TrimPage(&rows, "cursor", "")
	if len(rows) != paging.PageSize {
		t.Errorf("rows: got %d, want %d", len(rows), paging.PageSize)
	}
	if !res.HasPrev || !res.HasNext {
		t.Errorf("flags: %+v", res)
	}

	// Trimming backwards drops from the head, keeping the newest rows.
	if rows[0] != 1 {
		t.Errorf("expected first look-ahead row dropped, head=%d", rows[0])
	}

	// Short backward page: navigating back always implies a next page.
	rows = page(2)
	res = paging.TrimPage(&rows, "cursor", "")
	if res.HasPrev || !res.HasNext {
		t.Errorf("short backward flags: %+v", res)
	}
}

func TestReverse(t *testing.T) {
	rows := []int{1, 2, 3, 4}
	paging.Reverse(rows)
	want := []int{4, 3, 2, 1}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("reverse: got %v", rows)
		}
	}
}
