package http

import (
	"net/http"

	commonerrors "github.com/messagely/backend/internal/common/errors"
	"github.com/messagely/backend/internal/common/logger"
	"github.com/messagely/backend/internal/observability/metrics"
)

// StatusForKind maps the error taxonomy to transport status codes. The
// domain errors themselves carry no HTTP knowledge.
func StatusForKind(kind commonerrors.Kind) int {
	switch kind {
	case commonerrors.KindValidation:
		return http.StatusBadRequest
	case commonerrors.KindNotFound:
		return http.StatusNotFound
	case commonerrors.KindConflict, commonerrors.KindState:
		return http.StatusConflict
	case commonerrors.KindUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	ctx := r.Context()

	de, ok := commonerrors.AsDomainError(err)
	if !ok {
		h.log.WithFields(ctx, logger.Fields{
			"path":   r.URL.Path,
			"method": r.Method,
		}).Errorf("unhandled error: %v", err)
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	metrics.DomainErrorsTotal.WithLabelValues(string(de.Kind()), de.Code()).Inc()

	fields := logger.Fields{
		"path":   r.URL.Path,
		"method": r.Method,
		"code":   de.Code(),
		"kind":   string(de.Kind()),
	}

	switch de.Kind() {
	case commonerrors.KindConsistency:
		// Broken invariant: data corruption, alert rather than hand the
		// caller a recoverable-looking failure.
		h.log.WithFields(ctx, fields).Critical(de.Error())
		WriteError(w, http.StatusInternalServerError, de.Code(), "internal server error")
		return
	case commonerrors.KindInternal:
		h.log.WithFields(ctx, fields).Errorf("%v", de.Error())
		WriteError(w, http.StatusInternalServerError, de.Code(), "internal server error")
		return
	default:
		h.log.WithFields(ctx, fields).Warn(de.Message())
	}

	WriteError(w, StatusForKind(de.Kind()), de.Code(), de.Message())
}
