package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRecommendation(t *testing.T) {
	okBefore := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(OutcomeOK))
	fallbackBefore := testutil.ToFloat64(FilterFallbacksTotal)

	RecordRecommendation(OutcomeOK, false)
	RecordRecommendation(OutcomeOK, true)

	if got := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(OutcomeOK)) - okBefore; got != 2 {
		t.Errorf("expected 2 ok recommendations, got %v", got)
	}
	if got := testutil.ToFloat64(FilterFallbacksTotal) - fallbackBefore; got != 1 {
		t.Errorf("expected 1 fallback, got %v", got)
	}
}

func TestRecordCatalogLoad(t *testing.T) {
	before := testutil.ToFloat64(CatalogLoadTotal.WithLabelValues("snapshot"))

	RecordCatalogLoad("snapshot", 42)

	if got := testutil.ToFloat64(CatalogLoadTotal.WithLabelValues("snapshot")) - before; got != 1 {
		t.Errorf("expected one snapshot load, got %v", got)
	}
	if got := testutil.ToFloat64(CatalogMeals); got != 42 {
		t.Errorf("expected 42 meals, got %v", got)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/v1/meals/recommendations", "200"))

	RecordHTTPRequest("POST", "/v1/meals/recommendations", 200, 15*time.Millisecond)

	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/v1/meals/recommendations", "200")) - before; got != 1 {
		t.Errorf("expected one request, got %v", got)
	}
}
