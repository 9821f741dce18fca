package pagination

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{name: "defaults", in: Params{}, want: Params{Page: 1, PageSize: DefaultPageSize}},
		{name: "negative page", in: Params{Page: -3, PageSize: 5}, want: Params{Page: 1, PageSize: 5}},
		{name: "capped", in: Params{Page: 2, PageSize: 500}, want: Params{Page: 2, PageSize: MaxPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Fatalf("expected %+v got %+v", tt.want, got)
			}
		})
	}
}

func TestOffsetAndWindow(t *testing.T) {
	p := Params{Page: 3, PageSize: 5}
	if p.Offset() != 10 {
		t.Fatalf("expected offset 10, got %d", p.Offset())
	}
	if p.Window() != 15 {
		t.Fatalf("expected window 15, got %d", p.Window())
	}
	if !p.WithinWindow(15) {
		t.Fatal("expected page inside window")
	}
	if p.WithinWindow(14) {
		t.Fatal("expected page outside window")
	}
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 1, PageSize: 5}, 12)
	if meta.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", meta.TotalPages)
	}
	if meta.Total != 12 || meta.Page != 1 || meta.PageSize != 5 {
		t.Fatalf("unexpected meta %+v", meta)
	}
	if empty := NewMeta(Params{Page: 1, PageSize: 5}, 0); empty.TotalPages != 0 {
		t.Fatalf("expected 0 pages for empty set, got %d", empty.TotalPages)
	}
}
