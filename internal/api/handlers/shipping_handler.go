package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Cheertaboi/free-shipping-service/internal/models"
	"github.com/Cheertaboi/free-shipping-service/internal/service"
)

// EligibilityChecker is satisfied by *service.EligibilityService.
type EligibilityChecker interface {
	CheckFreeShipping(ctx context.Context, params service.CheckParams) (models.EligibilityResult, error)
}

type ShippingHandler struct {
	checker EligibilityChecker
	logger  *zap.Logger
}

func NewShippingHandler(checker EligibilityChecker, logger *zap.Logger) *ShippingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShippingHandler{checker: checker, logger: logger}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.ErrMissingParameters, service.ErrInvalidCartTotal, service.ErrInvalidCustomerID:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *ShippingHandler) writeError(w http.ResponseWriter, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		h.logger.Error("unclassified error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "internal_error",
			"message": "internal server error",
		})
		return
	}

	status := statusFor(svcErr.Kind)
	body := map[string]string{
		"error":   string(svcErr.Kind),
		"message": svcErr.Message,
	}
	if svcErr.Kind == service.ErrUpstreamLookupFailed && svcErr.Err != nil {
		body["details"] = svcErr.Err.Error()
		h.logger.Warn("order lookup failed", zap.Error(svcErr.Err))
	}
	writeJSON(w, status, body)
}

// --- Handlers ---

// Home handles GET /
func (h *ShippingHandler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Free Shipping Options App is running"))
}

// CheckFreeShipping handles GET /check-free-shipping?customer_id=&cart_total=&debug=
func (h *ShippingHandler) CheckFreeShipping(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := service.CheckParams{
		CustomerID: q.Get("customer_id"),
		CartTotal:  q.Get("cart_total"),
		Debug:      strings.EqualFold(q.Get("debug"), "true"),
	}

	result, err := h.checker.CheckFreeShipping(r.Context(), params)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
