package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Cheertaboi/free-shipping-service/internal/config"
	"github.com/Cheertaboi/free-shipping-service/internal/models"
)

const customerGIDPrefix = "gid://shopify/Customer/"

// One order is enough to know the customer is not new.
const orderLookupLimit = 1

// OrderHistoryProvider is implemented by the Shopify and Postgres repos.
type OrderHistoryProvider interface {
	CountOrders(ctx context.Context, customerID string, limit int) (int, error)
}

// CheckParams are the raw query parameters of a check.
type CheckParams struct {
	CustomerID string
	CartTotal  string
	Debug      bool
}

type EligibilityService struct {
	cfg    config.Config
	orders OrderHistoryProvider
	logger *zap.Logger
	tracer trace.Tracer
}

func NewEligibilityService(cfg config.Config, orders OrderHistoryProvider, logger *zap.Logger) *EligibilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EligibilityService{
		cfg:    cfg,
		orders: orders,
		logger: logger,
		tracer: otel.Tracer("github.com/Cheertaboi/free-shipping-service/internal/service"),
	}
}

// CheckFreeShipping validates params, looks up the customer's order history
// and returns the free shipping verdict. Every failure is a *Error.
func (s *EligibilityService) CheckFreeShipping(ctx context.Context, params CheckParams) (models.EligibilityResult, error) {
	if !s.cfg.Configured() {
		return models.EligibilityResult{}, newError(ErrServiceNotConfigured, "Server not configured", nil)
	}

	req, err := ParseEligibilityRequest(params)
	if err != nil {
		return models.EligibilityResult{}, err
	}

	ctx, span := s.tracer.Start(ctx, "CheckFreeShipping")
	defer span.End()

	if timeout := s.cfg.Shopify.LookupTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	count, err := s.orders.CountOrders(ctx, req.CustomerID, orderLookupLimit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order lookup failed")
		return models.EligibilityResult{}, newError(ErrUpstreamLookupFailed, "Customer not found or no order data", err)
	}

	result := Evaluate(models.OrderHistorySummary{OrderCount: count}, req.CartTotal, s.cfg.Eligibility)
	span.SetAttributes(
		attribute.Int("shipping.order_count", result.OrderCount),
		attribute.Bool("shipping.eligible", result.Eligible),
	)

	if req.Debug {
		s.emitDebug(req, result)
	}
	return result, nil
}

// ParseEligibilityRequest turns raw parameters into a request. The customer id
// may be numeric or a Customer global id; it is normalised to the numeric form.
func ParseEligibilityRequest(params CheckParams) (models.EligibilityRequest, error) {
	customerID := strings.TrimSpace(params.CustomerID)
	cartTotalRaw := strings.TrimSpace(params.CartTotal)
	if customerID == "" || cartTotalRaw == "" {
		return models.EligibilityRequest{}, newError(ErrMissingParameters, "Missing required parameters", nil)
	}

	cartTotal, err := decimal.NewFromString(cartTotalRaw)
	if err != nil {
		return models.EligibilityRequest{}, newError(ErrInvalidCartTotal, "Invalid cart total value", err)
	}
	if cartTotal.IsNegative() {
		return models.EligibilityRequest{}, newError(ErrInvalidCartTotal, "Invalid cart total value", nil)
	}

	customerID = strings.TrimPrefix(customerID, customerGIDPrefix)
	if !isNumeric(customerID) {
		return models.EligibilityRequest{}, newError(ErrInvalidCustomerID, "Invalid customer id", nil)
	}

	return models.EligibilityRequest{
		CustomerID: customerID,
		CartTotal:  cartTotal,
		Debug:      params.Debug,
	}, nil
}

// Evaluate applies the rule: first order and cart total strictly below the threshold.
func Evaluate(history models.OrderHistorySummary, cartTotal decimal.Decimal, cfg config.EligibilityConfig) models.EligibilityResult {
	isFirstOrder := history.OrderCount == 0
	eligible := isFirstOrder && cartTotal.LessThan(cfg.FreeShippingThreshold)

	result := models.EligibilityResult{
		Eligible:     eligible,
		IsFirstOrder: isFirstOrder,
		OrderCount:   history.OrderCount,
	}
	if eligible {
		code := cfg.DiscountCode
		result.DiscountCode = &code
	}
	return result
}

func (s *EligibilityService) emitDebug(req models.EligibilityRequest, result models.EligibilityResult) {
	// zap reports its own write failures to ErrorOutput
	fields := []zap.Field{
		zap.String("customer_id", req.CustomerID),
		zap.String("cart_total", req.CartTotal.String()),
		zap.Bool("eligible", result.Eligible),
		zap.Bool("is_first_order", result.IsFirstOrder),
		zap.Int("order_count", result.OrderCount),
	}
	if result.DiscountCode != nil {
		fields = append(fields, zap.String("discount_code", *result.DiscountCode))
	}
	s.logger.Info("free shipping debug", fields...)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
