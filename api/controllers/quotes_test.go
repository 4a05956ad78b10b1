package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	quotesvc "github.com/pixelastronauts/matwise-backend/internal/quotes"
	"github.com/pixelastronauts/matwise-backend/pkg/enums"
	pkgerrors "github.com/pixelastronauts/matwise-backend/pkg/errors"
)

type stubQuoteService struct {
	quote   *quotesvc.LineQuote
	preview *quotesvc.PreviewResult
	err     error

	gotQuote   *quotesvc.QuoteInput
	gotPreview *quotesvc.PreviewInput
}

func (s *stubQuoteService) Quote(_ context.Context, input quotesvc.QuoteInput) (*quotesvc.LineQuote, error) {
	s.gotQuote = &input
	if s.err != nil {
		return nil, s.err
	}
	return s.quote, nil
}

func (s *stubQuoteService) PreviewFormula(_ context.Context, input quotesvc.PreviewInput) (*quotesvc.PreviewResult, error) {
	s.gotPreview = &input
	if s.err != nil {
		return nil, s.err
	}
	return s.preview, nil
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestQuoteLineSuccess(t *testing.T) {
	groupID := uuid.New()
	svc := &stubQuoteService{quote: &quotesvc.LineQuote{
		VariantID:      "gid://shopify/ProductVariant/42",
		Quantity:       3,
		Source:         quotesvc.SourcePriceList,
		UnitPriceCents: 1250,
		SubtotalCents:  3750,
		TaxCents:       788,
		TotalCents:     4538,
		ChargeTax:      true,
		TaxRatePercent: 21,
		TaxCode:        enums.TaxCodeStandard,
	}}
	handler := QuoteLine(svc, nil)

	rec := postJSON(t, handler, "/v1/quotes", map[string]any{
		"variant_id":    "gid://shopify/ProductVariant/42",
		"quantity":      3,
		"width_value":   0.5,
		"length_value":  0.8,
		"price_per_sqm": 25.0,
		"customer": map[string]any{
			"group_ids": []string{groupID.String()},
		},
		"tax": map[string]any{
			"shipping_country":     "NL",
			"is_business_checkout": false,
		},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data quotesvc.LineQuote `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalCents != 4538 {
		t.Fatalf("expected total 4538 got %d", envelope.Data.TotalCents)
	}
	if svc.gotQuote == nil || len(svc.gotQuote.Customer.GroupIDs) != 1 || svc.gotQuote.Customer.GroupIDs[0] != groupID {
		t.Fatalf("expected group id forwarded, got %+v", svc.gotQuote)
	}
}

func TestQuoteLineRejectsMissingQuantity(t *testing.T) {
	handler := QuoteLine(&stubQuoteService{}, nil)

	rec := postJSON(t, handler, "/v1/quotes", map[string]any{
		"variant_id":    "v-1",
		"width_value":   0.5,
		"length_value":  0.8,
		"price_per_sqm": 25.0,
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestQuoteLineMapsNotFound(t *testing.T) {
	svc := &stubQuoteService{err: pkgerrors.New(pkgerrors.CodeNotFound, "no applicable price")}
	handler := QuoteLine(svc, nil)

	rec := postJSON(t, handler, "/v1/quotes", map[string]any{
		"variant_id":    "v-1",
		"quantity":      1,
		"width_value":   0.5,
		"length_value":  0.8,
		"price_per_sqm": 25.0,
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestPreviewFormulaSuccess(t *testing.T) {
	svc := &stubQuoteService{preview: &quotesvc.PreviewResult{UnitPriceMajor: 26.5, UnitPriceCents: 2650}}
	handler := PreviewFormula(svc, nil)

	rec := postJSON(t, handler, "/v1/formulas/preview", map[string]any{
		"formula_string": "width_value * length_value * price_per_sqm",
		"width_value":    1.0,
		"length_value":   1.0,
		"price_per_sqm":  26.5,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.gotPreview == nil || svc.gotPreview.PricePerSqm != 26.5 {
		t.Fatalf("expected bindings forwarded, got %+v", svc.gotPreview)
	}
}

func TestPreviewFormulaSyntaxErrorIsValidation(t *testing.T) {
	svc := &stubQuoteService{err: pkgerrors.New(pkgerrors.CodeValidation, "syntax error at position 6")}
	handler := PreviewFormula(svc, nil)

	rec := postJSON(t, handler, "/v1/formulas/preview", map[string]any{
		"formula_string": "1 + + 2",
		"width_value":    1.0,
		"length_value":   1.0,
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
