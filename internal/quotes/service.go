package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelastronauts/matwise-backend/internal/formula"
	"github.com/pixelastronauts/matwise-backend/internal/pricelists"
	"github.com/pixelastronauts/matwise-backend/internal/tax"
	"github.com/pixelastronauts/matwise-backend/pkg/db/models"
	"github.com/pixelastronauts/matwise-backend/pkg/enums"
	pkgerrors "github.com/pixelastronauts/matwise-backend/pkg/errors"
	"github.com/pixelastronauts/matwise-backend/pkg/logger"
	"github.com/pixelastronauts/matwise-backend/pkg/metrics"
	"github.com/pixelastronauts/matwise-backend/pkg/money"
)

// Price sources reported on a line quote.
const (
	SourcePriceList = "price_list"
	SourceFormula   = "formula"
)

// Service composes the pricing pipeline for one storefront line: tiered price
// when a list matches, otherwise the pricing formula, then quantity and the
// tax decision.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*LineQuote, error)
	PreviewFormula(ctx context.Context, input PreviewInput) (*PreviewResult, error)
}

type priceResolver interface {
	ResolvePrice(ctx context.Context, variantID string, quantity int, customer pricelists.CustomerContext, at time.Time) (*pricelists.Resolution, error)
}

type formulaSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.PricingFormula, error)
	FindDefault(ctx context.Context) (*models.PricingFormula, error)
}

type quoteCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	QuoteKey(hash string) string
}

type service struct {
	prices   priceResolver
	formulas formulaSource
	compiled *formula.Cache
	cache    quoteCache
	cacheTTL time.Duration
	taxCfg   TaxSettings
	metrics  *metrics.PricingMetrics
	logg     *logger.Logger
}

// TaxSettings carries the merchant-level tax inputs every decision shares.
type TaxSettings struct {
	HomeCountry        string
	DefaultRatePercent float64
}

// ServiceParams bundles the dependencies required to build a quote service.
// Cache and Metrics are optional; a nil cache disables response caching
// without changing behavior.
type ServiceParams struct {
	Prices   priceResolver
	Formulas formulaSource
	Cache    quoteCache
	CacheTTL time.Duration
	Tax      TaxSettings
	Metrics  *metrics.PricingMetrics
	Logger   *logger.Logger
}

// NewService constructs a quote service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Prices == nil {
		return nil, fmt.Errorf("price resolver is required")
	}
	if params.Formulas == nil {
		return nil, fmt.Errorf("formula source is required")
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &service{
		prices:   params.Prices,
		formulas: params.Formulas,
		compiled: formula.NewCache(),
		cache:    params.Cache,
		cacheTTL: ttl,
		taxCfg:   params.Tax,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

// QuoteInput is one storefront line to price. Dimensions and the per-square-
// meter base price come from the caller because the product catalog lives in
// the commerce platform, not here.
type QuoteInput struct {
	VariantID   string
	Quantity    int
	WidthValue  float64
	LengthValue float64
	PricePerSqm float64
	FormulaID   *uuid.UUID
	Customer    pricelists.CustomerContext
	Tax         TaxInput
}

// TaxInput carries the per-checkout half of the tax context.
type TaxInput struct {
	ShippingCountry    string
	IsBusinessCheckout bool
	VATNumber          string
	VATNumberValidated bool
}

// LineQuote is the priced line returned to the storefront.
type LineQuote struct {
	VariantID      string        `json:"variant_id"`
	Quantity       int           `json:"quantity"`
	Source         string        `json:"source"`
	PriceListID    *uuid.UUID    `json:"price_list_id,omitempty"`
	FormulaID      *uuid.UUID    `json:"formula_id,omitempty"`
	UnitPriceCents int64         `json:"unit_price_cents"`
	SubtotalCents  int64         `json:"subtotal_cents"`
	TaxCents       int64         `json:"tax_cents"`
	TotalCents     int64         `json:"total_cents"`
	ChargeTax      bool          `json:"charge_tax"`
	TaxRatePercent float64       `json:"tax_rate_percent"`
	TaxCode        enums.TaxCode `json:"tax_code"`
}

// Quote prices one line. Tiered prices win when a list covers the request;
// otherwise the pricing formula produces the unit price and the single
// rounding step converts it to cents before quantity and tax are applied.
func (s *service) Quote(ctx context.Context, input QuoteInput) (*LineQuote, error) {
	if input.VariantID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	cacheKey := s.cacheKey(input)
	if cached := s.cachedQuote(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	decision := tax.Decide(tax.Context{
		ShippingCountry:    input.Tax.ShippingCountry,
		HomeCountry:        s.taxCfg.HomeCountry,
		IsBusinessCheckout: input.Tax.IsBusinessCheckout,
		VATNumber:          input.Tax.VATNumber,
		VATNumberValidated: input.Tax.VATNumberValidated,
		DefaultRatePercent: s.taxCfg.DefaultRatePercent,
	})
	s.metrics.IncTaxDecision(decision.Code.String())

	quote := &LineQuote{
		VariantID:      input.VariantID,
		Quantity:       input.Quantity,
		ChargeTax:      decision.ChargeTax,
		TaxRatePercent: decision.RatePercent,
		TaxCode:        decision.Code,
	}

	resolution, err := s.prices.ResolvePrice(ctx, input.VariantID, input.Quantity, input.Customer, time.Now().UTC())
	switch {
	case err == nil:
		quote.Source = SourcePriceList
		listID := resolution.PriceListID
		quote.PriceListID = &listID
		quote.UnitPriceCents = int64(resolution.PricePerUnitCents)
	case errors.Is(err, pricelists.ErrNoApplicablePrice):
		if err := s.priceByFormula(ctx, input, decision, quote); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	quote.SubtotalCents = quote.UnitPriceCents * int64(input.Quantity)
	if decision.ChargeTax {
		quote.TaxCents = money.PercentOf(quote.SubtotalCents, decision.RatePercent)
	}
	quote.TotalCents = quote.SubtotalCents + quote.TaxCents

	s.metrics.IncQuote(quote.Source)
	s.storeQuote(ctx, cacheKey, quote)
	return quote, nil
}

// priceByFormula evaluates the variant's pricing formula to a major-unit
// amount and converts it to cents in one rounding step.
func (s *service) priceByFormula(ctx context.Context, input QuoteInput, decision tax.Decision, quote *LineQuote) error {
	record, err := s.loadFormula(ctx, input.FormulaID)
	if err != nil {
		return err
	}

	compiled, err := s.compiled.Compile(record.FormulaString)
	if err != nil {
		s.metrics.IncCompileFailure()
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compile pricing formula")
	}

	bindings := make(map[string]float64, len(record.Parameters)+5)
	for name, value := range record.Parameters {
		bindings[name] = value
	}
	bindings[formula.VarWidth] = input.WidthValue
	bindings[formula.VarLength] = input.LengthValue
	bindings[formula.VarPricePerSqm] = input.PricePerSqm
	bindings[formula.VarQuantity] = float64(input.Quantity)
	taxFraction := 0.0
	if decision.ChargeTax {
		taxFraction = decision.RatePercent / 100
	}
	bindings[formula.VarTax] = taxFraction

	unitMajor, err := compiled.Evaluate(bindings)
	if err != nil {
		var unknown *formula.UnknownVariableError
		if errors.As(err, &unknown) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("formula references unbound variable %q", unknown.Name))
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "evaluate pricing formula")
	}
	if unitMajor < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "formula produced a negative price")
	}

	quote.Source = SourceFormula
	formulaID := record.ID
	quote.FormulaID = &formulaID
	quote.UnitPriceCents = money.ToCents(unitMajor)
	return nil
}

func (s *service) loadFormula(ctx context.Context, id *uuid.UUID) (*models.PricingFormula, error) {
	if id != nil {
		record, err := s.formulas.FindByID(ctx, *id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "formula not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load formula")
		}
		if !record.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "formula is inactive")
		}
		return record, nil
	}

	record, err := s.formulas.FindDefault(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no applicable price")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load default formula")
	}
	return record, nil
}

// PreviewInput evaluates an unsaved formula body against explicit bindings,
// for the storefront pricing calculator.
type PreviewInput struct {
	FormulaString string
	Parameters    map[string]float64
	WidthValue    float64
	LengthValue   float64
	PricePerSqm   float64
	Quantity      int
	TaxFraction   float64
}

// PreviewResult is the evaluated amount in both units.
type PreviewResult struct {
	UnitPriceMajor float64 `json:"unit_price"`
	UnitPriceCents int64   `json:"unit_price_cents"`
}

// PreviewFormula compiles and evaluates a formula body without persisting it.
func (s *service) PreviewFormula(ctx context.Context, input PreviewInput) (*PreviewResult, error) {
	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}

	compiled, err := formula.Compile(input.FormulaString)
	if err != nil {
		var syntaxErr *formula.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, syntaxErr.Error()).
				WithDetails(map[string]any{"position": syntaxErr.Position})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "compile formula")
	}

	bindings := make(map[string]float64, len(input.Parameters)+5)
	for name, value := range input.Parameters {
		bindings[name] = value
	}
	bindings[formula.VarWidth] = input.WidthValue
	bindings[formula.VarLength] = input.LengthValue
	bindings[formula.VarPricePerSqm] = input.PricePerSqm
	bindings[formula.VarQuantity] = float64(quantity)
	bindings[formula.VarTax] = input.TaxFraction

	unitMajor, err := compiled.Evaluate(bindings)
	if err != nil {
		var unknown *formula.UnknownVariableError
		if errors.As(err, &unknown) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("formula references unbound variable %q", unknown.Name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "evaluate formula")
	}

	return &PreviewResult{
		UnitPriceMajor: unitMajor,
		UnitPriceCents: money.ToCents(unitMajor),
	}, nil
}

func (s *service) cachedQuote(ctx context.Context, key string) *LineQuote {
	if s.cache == nil || key == "" {
		return nil
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil || raw == "" {
		return nil
	}
	var quote LineQuote
	if err := json.Unmarshal([]byte(raw), &quote); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "cache_key", key), "dropping undecodable cached quote")
		}
		return nil
	}
	return &quote
}

func (s *service) storeQuote(ctx context.Context, key string, quote *LineQuote) {
	if s.cache == nil || key == "" {
		return
	}
	payload, err := json.Marshal(quote)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "quote cache write failed")
	}
}

func (s *service) cacheKey(input QuoteInput) string {
	if s.cache == nil {
		return ""
	}
	hash, err := hashQuoteInput(input)
	if err != nil {
		return ""
	}
	return s.cache.QuoteKey(hash)
}
