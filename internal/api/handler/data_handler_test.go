package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/insighthq/insight-api/internal/core/domain"
)

func TestDataHandler_Combined(t *testing.T) {
	svc := &stubDataService{report: domain.CombinedReport{
		City:        "London",
		Temperature: "15.5°C",
		Weather:     "light rain",
		Crypto:      domain.CryptoPrice{Name: "bitcoin", PriceUSD: 64250.12},
	}}
	h := NewDataHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/v1/data?city=London&currency=bitcoin", "")
	if err := h.Combined(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.gotCity != "London" || svc.gotCurrency != "bitcoin" || svc.gotRefresh {
		t.Fatalf("service got %q/%q refresh=%v", svc.gotCity, svc.gotCurrency, svc.gotRefresh)
	}

	env := decodeEnvelope(t, rec)
	if dataField(t, env, "city") != "London" {
		t.Fatalf("unexpected data: %+v", env.Data)
	}
}

func TestDataHandler_Combined_RefreshFlag(t *testing.T) {
	svc := &stubDataService{}
	h := NewDataHandler(svc)

	c, _ := newTestContext(http.MethodGet, "/v1/data?city=London&currency=bitcoin&refresh=true", "")
	if err := h.Combined(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !svc.gotRefresh {
		t.Fatalf("refresh flag not passed")
	}
}

// Validation failures must short-circuit before the aggregator runs, so a bad
// query burns no upstream quota.
func TestDataHandler_Combined_InvalidQuery(t *testing.T) {
	queries := []string{
		"/v1/data",
		"/v1/data?city=L&currency=bitcoin",
		"/v1/data?city=London",
		"/v1/data?city=London&currency=bitcoin&refresh=yes",
	}

	for _, target := range queries {
		svc := &stubDataService{}
		h := NewDataHandler(svc)

		c, _ := newTestContext(http.MethodGet, target, "")
		err := h.Combined(c)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", target, err)
		}
		if svc.calls != 0 {
			t.Fatalf("%s: aggregator called %d times for invalid input", target, svc.calls)
		}
	}
}

func TestDataHandler_Combined_UpstreamErrorPassesThrough(t *testing.T) {
	svc := &stubDataService{err: &domain.UpstreamError{
		Kind:    domain.UpstreamNotFound,
		Message: "City not found: Atlantis",
	}}
	h := NewDataHandler(svc)

	c, _ := newTestContext(http.MethodGet, "/v1/data?city=Atlantis&currency=bitcoin", "")
	err := h.Combined(c)
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.Kind != domain.UpstreamNotFound {
		t.Fatalf("unexpected kind: %q", ue.Kind)
	}
}
