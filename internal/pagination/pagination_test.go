package pagination

import "testing"

func TestDefaults(t *testing.T) {
	var req PageRequest
	req.Defaults()
	if req.Page != 1 || req.PageSize != DefaultPageSize {
		t.Errorf("unexpected defaults %+v", req)
	}

	req = PageRequest{Page: 3, PageSize: 10000}
	req.Defaults()
	if req.PageSize != MaxPageSize {
		t.Errorf("expected page size capped at %d, got %d", MaxPageSize, req.PageSize)
	}
	if req.Offset() != 2*MaxPageSize {
		t.Errorf("unexpected offset %d", req.Offset())
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse[int](nil, PageRequest{Page: 1, PageSize: 20}, 41)
	if resp.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", resp.TotalPages)
	}
	if resp.Data == nil {
		t.Error("data should never be nil")
	}

	empty := NewPageResponse([]int{}, PageRequest{Page: 1, PageSize: 20}, 0)
	if empty.TotalPages != 0 {
		t.Errorf("expected 0 pages, got %d", empty.TotalPages)
	}
}
