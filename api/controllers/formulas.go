package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pixelastronauts/matwise-backend/api/responses"
	"github.com/pixelastronauts/matwise-backend/api/validators"
	formulasvc "github.com/pixelastronauts/matwise-backend/internal/formulas"
	"github.com/pixelastronauts/matwise-backend/pkg/db/models"
	pkgerrors "github.com/pixelastronauts/matwise-backend/pkg/errors"
	"github.com/pixelastronauts/matwise-backend/pkg/logger"
)

type formulaRequest struct {
	Name          string             `json:"name" validate:"required"`
	FormulaString string             `json:"formula_string" validate:"required"`
	Parameters    map[string]float64 `json:"parameters,omitempty"`
	IsActive      *bool              `json:"is_active,omitempty"`
}

type formulaResponse struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	FormulaString string             `json:"formula_string"`
	Parameters    map[string]float64 `json:"parameters"`
	IsActive      bool               `json:"is_active"`
	IsDefault     bool               `json:"is_default"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func toFormulaResponse(record *models.PricingFormula) formulaResponse {
	params := map[string]float64{}
	for k, v := range record.Parameters {
		params[k] = v
	}
	return formulaResponse{
		ID:            record.ID,
		Name:          record.Name,
		FormulaString: record.FormulaString,
		Parameters:    params,
		IsActive:      record.IsActive,
		IsDefault:     record.IsDefault,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}

func (r formulaRequest) toInput() formulasvc.FormulaInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return formulasvc.FormulaInput{
		Name:          r.Name,
		FormulaString: r.FormulaString,
		Parameters:    r.Parameters,
		IsActive:      active,
	}
}

// AdminFormulaCreate persists a new pricing formula.
func AdminFormulaCreate(svc formulasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload formulaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.CreateFormula(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toFormulaResponse(record))
	}
}

// AdminFormulaUpdate replaces an existing formula's definition.
func AdminFormulaUpdate(svc formulasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := formulaID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload formulaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateFormula(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toFormulaResponse(record))
	}
}

func AdminFormulaDelete(svc formulasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := formulaID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteFormula(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AdminFormulaGet(svc formulasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := formulaID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetFormula(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toFormulaResponse(record))
	}
}

func AdminFormulaList(svc formulasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.ListFormulas(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]formulaResponse, 0, len(records))
		for i := range records {
			out = append(out, toFormulaResponse(&records[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// AdminFormulaSetDefault promotes one formula to the catalog default.
func AdminFormulaSetDefault(svc formulasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := formulaID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetDefault(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "default_set"})
	}
}

// AdminFormulaValidate recompiles a stored formula and reports the outcome,
// useful after parameter edits outside this API.
func AdminFormulaValidate(svc formulasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := formulaID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetFormula(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result := svc.Validate(formulasvc.ValidationInput{
			FormulaString: record.FormulaString,
			Parameters:    record.Parameters,
		})
		responses.WriteSuccess(w, result)
	}
}

func formulaID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "formulaId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid formula id")
	}
	return id, nil
}
