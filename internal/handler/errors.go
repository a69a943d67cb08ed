package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"micropantry-api/internal/repository"
	"micropantry-api/internal/service"
	"micropantry-api/internal/source"
	"micropantry-api/internal/telemetry"
	"micropantry-api/pkg/apierror"
	"micropantry-api/pkg/response"
)

const maxBodyBytes = 1 << 20

// writeError maps service errors onto API errors. Upstream failures of the
// catalog are reported as 503.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeMapped(w, r, err, apierror.ServiceUnavailable("pantry data source is unavailable"))
}

// writeChartError is writeError for rendered charts: an unavailable telemetry
// source is a 502 and an empty series is a 404.
func writeChartError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, telemetry.ErrNoWeightData) {
		response.Error(w, apierror.NotFound(telemetry.NoWeightData))
		return
	}
	writeMapped(w, r, err, apierror.BadGateway("telemetry source is unavailable"))
}

func writeMapped(w http.ResponseWriter, r *http.Request, err error, unavailable *apierror.Error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error(w, apierror.ValidationError("invalid request", apierror.FieldError{
			Field:   verr.Field,
			Message: verr.Message,
		}))
	case errors.Is(err, repository.ErrNotFound):
		response.Error(w, apierror.NotFound(err.Error()))
	case errors.Is(err, source.ErrUnavailable):
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("upstream unavailable")
		response.Error(w, unavailable)
	default:
		if _, ok := apierror.As(err); !ok {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		}
		response.Error(w, err)
	}
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return false
	}
	return true
}
