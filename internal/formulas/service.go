package formulas

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelastronauts/matwise-backend/internal/formula"
	"github.com/pixelastronauts/matwise-backend/pkg/db/models"
	dbtypes "github.com/pixelastronauts/matwise-backend/pkg/db/types"
	pkgerrors "github.com/pixelastronauts/matwise-backend/pkg/errors"
)

// Service exposes pricing formula management. Formulas are compiled at write
// time: syntax errors and unresolved identifiers never reach the quote path.
type Service interface {
	CreateFormula(ctx context.Context, input FormulaInput) (*models.PricingFormula, error)
	UpdateFormula(ctx context.Context, id uuid.UUID, input FormulaInput) (*models.PricingFormula, error)
	DeleteFormula(ctx context.Context, id uuid.UUID) error
	GetFormula(ctx context.Context, id uuid.UUID) (*models.PricingFormula, error)
	ListFormulas(ctx context.Context) ([]models.PricingFormula, error)
	SetDefault(ctx context.Context, id uuid.UUID) error
	Validate(input ValidationInput) ValidationResult
}

type service struct {
	repo FormulaRepository
}

// NewService builds a formula service backed by the provided repository.
func NewService(repo FormulaRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("formula repository required")
	}
	return &service{repo: repo}, nil
}

// FormulaInput captures the payload for creating or replacing a formula.
type FormulaInput struct {
	Name          string
	FormulaString string
	Parameters    map[string]float64
	IsActive      bool
}

// ValidationInput is a formula body checked without persisting anything.
type ValidationInput struct {
	FormulaString string
	Parameters    map[string]float64
}

// ValidationResult reports the outcome of compiling a formula body.
type ValidationResult struct {
	Valid         bool     `json:"valid"`
	Variables     []string `json:"variables,omitempty"`
	Unresolved    []string `json:"unresolved,omitempty"`
	SyntaxError   string   `json:"syntax_error,omitempty"`
	ErrorPosition *int     `json:"error_position,omitempty"`
}

// CreateFormula compiles, validates and persists a new formula.
func (s *service) CreateFormula(ctx context.Context, input FormulaInput) (*models.PricingFormula, error) {
	if err := checkFormulaInput(input); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &models.PricingFormula{
		Name:          input.Name,
		FormulaString: input.FormulaString,
		Parameters:    dbtypes.NumberMap(input.Parameters),
		IsActive:      input.IsActive,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create formula")
	}
	return created, nil
}

// UpdateFormula compiles, validates and saves changes to a formula.
func (s *service) UpdateFormula(ctx context.Context, id uuid.UUID, input FormulaInput) (*models.PricingFormula, error) {
	if err := checkFormulaInput(input); err != nil {
		return nil, err
	}

	existing, err := s.GetFormula(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.FormulaString = input.FormulaString
	existing.Parameters = dbtypes.NumberMap(input.Parameters)
	existing.IsActive = input.IsActive

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update formula")
	}
	return updated, nil
}

// DeleteFormula removes a formula by id.
func (s *service) DeleteFormula(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete formula")
	}
	return nil
}

// GetFormula loads one formula.
func (s *service) GetFormula(ctx context.Context, id uuid.UUID) (*models.PricingFormula, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "formula not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load formula")
	}
	return record, nil
}

// ListFormulas returns all formulas.
func (s *service) ListFormulas(ctx context.Context) ([]models.PricingFormula, error) {
	formulas, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list formulas")
	}
	return formulas, nil
}

// SetDefault moves the catalog default pointer to the given formula.
func (s *service) SetDefault(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetDefault(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "formula not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default formula")
	}
	return nil
}

// Validate compiles a formula body and reports its variables and any
// identifiers that resolve neither to a built-in nor to a parameter key.
func (s *service) Validate(input ValidationInput) ValidationResult {
	compiled, err := formula.Compile(input.FormulaString)
	if err != nil {
		result := ValidationResult{SyntaxError: err.Error()}
		var syntaxErr *formula.SyntaxError
		if errors.As(err, &syntaxErr) {
			position := syntaxErr.Position
			result.ErrorPosition = &position
		}
		return result
	}

	result := ValidationResult{
		Variables:  compiled.Variables(),
		Unresolved: compiled.UnresolvedVariables(input.Parameters),
	}
	result.Valid = len(result.Unresolved) == 0
	return result
}

func checkFormulaInput(input FormulaInput) error {
	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "formula name is required")
	}

	compiled, err := formula.Compile(input.FormulaString)
	if err != nil {
		var syntaxErr *formula.SyntaxError
		if errors.As(err, &syntaxErr) {
			return pkgerrors.New(pkgerrors.CodeValidation, syntaxErr.Error()).
				WithDetails(map[string]any{"position": syntaxErr.Position})
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "compile formula")
	}

	if unresolved := compiled.UnresolvedVariables(input.Parameters); len(unresolved) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "formula references unknown identifiers").
			WithDetails(map[string]any{"unresolved": unresolved})
	}
	return nil
}
