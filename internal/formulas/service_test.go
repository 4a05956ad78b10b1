package formulas

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelastronauts/matwise-backend/pkg/db/models"
	pkgerrors "github.com/pixelastronauts/matwise-backend/pkg/errors"
)

type stubFormulaRepo struct {
	FormulaRepository
	created    *models.PricingFormula
	findErr    error
	setDefault error
}

func (s *stubFormulaRepo) Create(ctx context.Context, f *models.PricingFormula) (*models.PricingFormula, error) {
	f.ID = uuid.New()
	s.created = f
	return f, nil
}

func (s *stubFormulaRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.PricingFormula, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return &models.PricingFormula{ID: id}, nil
}

func (s *stubFormulaRepo) SetDefault(ctx context.Context, id uuid.UUID) error {
	return s.setDefault
}

func TestNewServiceRequiresRepo(t *testing.T) {
	t.Parallel()

	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil repository")
	}
}

func TestCreateFormulaCompiles(t *testing.T) {
	t.Parallel()

	repo := &stubFormulaRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created, err := svc.CreateFormula(context.Background(), FormulaInput{
		Name:          "sqm with margin",
		FormulaString: "width_value * length_value * price_per_sqm * margin",
		Parameters:    map[string]float64{"margin": 1.35},
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected id to be assigned")
	}
	if repo.created == nil || repo.created.Name != "sqm with margin" {
		t.Fatalf("unexpected persisted formula: %+v", repo.created)
	}
}

func TestCreateFormulaRejectsSyntaxError(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubFormulaRepo{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.CreateFormula(context.Background(), FormulaInput{
		Name:          "broken",
		FormulaString: "width_value * ",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected position details, got %v", typed.Details())
	}
	if _, ok := details["position"]; !ok {
		t.Fatalf("expected position in details, got %v", details)
	}
}

func TestCreateFormulaRejectsUnresolvedIdentifiers(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubFormulaRepo{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.CreateFormula(context.Background(), FormulaInput{
		Name:          "dangling",
		FormulaString: "width_value * markup",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected unresolved details, got %v", typed.Details())
	}
	unresolved, ok := details["unresolved"].([]string)
	if !ok || len(unresolved) != 1 || unresolved[0] != "markup" {
		t.Fatalf("unexpected unresolved identifiers: %v", details["unresolved"])
	}
}

func TestGetFormulaNotFound(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubFormulaRepo{findErr: gorm.ErrRecordNotFound})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.GetFormula(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetDefaultNotFound(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubFormulaRepo{setDefault: gorm.ErrRecordNotFound})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = svc.SetDefault(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestValidateReportsVariablesAndUnresolved(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubFormulaRepo{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := svc.Validate(ValidationInput{
		FormulaString: "width_value * length_value * rate",
	})
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Unresolved) != 1 || result.Unresolved[0] != "rate" {
		t.Fatalf("unexpected unresolved: %v", result.Unresolved)
	}

	result = svc.Validate(ValidationInput{
		FormulaString: "width_value * length_value * rate",
		Parameters:    map[string]float64{"rate": 2},
	})
	if !result.Valid {
		t.Fatalf("expected valid result, got %+v", result)
	}
	if len(result.Variables) != 3 {
		t.Fatalf("unexpected variables: %v", result.Variables)
	}
}

func TestValidateReportsSyntaxPosition(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubFormulaRepo{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := svc.Validate(ValidationInput{FormulaString: "1 + + 2"})
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if result.SyntaxError == "" {
		t.Fatal("expected syntax error message")
	}
	if result.ErrorPosition == nil {
		t.Fatal("expected error position")
	}
}
