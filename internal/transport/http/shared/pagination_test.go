package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func paginationRequest(t *testing.T, query string) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodGet, "/?"+query, nil)
}

func TestParsePaginationDefaults(t *testing.T) {
	page := ParsePagination(paginationRequest(t, ""), 50, 200)
	if page.Limit != 50 || page.Offset != 0 {
		t.Fatalf("expected defaults 50/0, got %d/%d", page.Limit, page.Offset)
	}
}

func TestParsePaginationClampsLimit(t *testing.T) {
	page := ParsePagination(paginationRequest(t, "limit=5000&offset=20"), 50, 200)
	if page.Limit != 200 {
		t.Fatalf("expected limit clamped to 200, got %d", page.Limit)
	}
	if page.Offset != 20 {
		t.Fatalf("expected offset 20, got %d", page.Offset)
	}
}

func TestParsePaginationIgnoresMalformedValues(t *testing.T) {
	page := ParsePagination(paginationRequest(t, "limit=abc&offset=-5"), 50, 200)
	if page.Limit != 50 || page.Offset != 0 {
		t.Fatalf("malformed params must fall back to defaults, got %d/%d", page.Limit, page.Offset)
	}
}
