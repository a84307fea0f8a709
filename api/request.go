package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into dst. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, payloadType string, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.NewMalformedPayloadError(payloadType, err)
	}
	return nil
}

// validatePayload runs model validation and converts failures to an ApiErr.
func validatePayload(payloadType string, payload any) error {
	err := models.Validate(payload)
	if err == nil {
		return nil
	}
	var verrs models.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	problems := make([]errs.FieldProblem, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, errs.FieldProblem{Field: fe.Field, Reason: fe.Reason})
	}
	return errs.NewValidationError(payloadType, problems)
}

// idParam parses the {id} path parameter.
func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errs.NewInvalidIDError(raw)
	}
	return id, nil
}
