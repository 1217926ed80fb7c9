package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"mentorhub/internal/config"
	"mentorhub/internal/domain"
	"mentorhub/internal/modules/confirmation"
	"mentorhub/internal/repository"
)

// Coordinator owns every interaction with the payment gateway: opening
// orders for new bookings and verifying payments idempotently. It is the
// only component allowed to decide PENDING→CONFIRMED and PENDING→FAILED.
type Coordinator struct {
	gateway  Gateway
	bookings bookingStore
	pipeline confirmer
	cfg      config.RazorpayConfig
	currency string

	// allowUnverified confirms a booking when the gateway cannot be reached
	// at all. Explicit opt-in, never an implicit fallback.
	allowUnverified bool

	log *zap.Logger
}

func NewCoordinator(gateway Gateway, bookings bookingStore, pipeline confirmer, cfg config.RazorpayConfig, bookingCfg config.BookingConfig, log *zap.Logger) *Coordinator {
	return &Coordinator{
		gateway:         gateway,
		bookings:        bookings,
		pipeline:        pipeline,
		cfg:             cfg,
		currency:        bookingCfg.Currency,
		allowUnverified: bookingCfg.AllowUnverified,
		log:             log,
	}
}

// Configured reports whether gateway credentials are present. Callers check
// this before taking any step that would be wasted without a gateway.
func (c *Coordinator) Configured() bool {
	return c.cfg.Configured()
}

// CreateOrder opens a gateway order sized to the booking's snapshotted
// price, tagged with the booking id for reconciliation. It never mutates the
// booking.
func (c *Coordinator) CreateOrder(ctx context.Context, b *domain.Booking) (*Order, error) {
	if !c.cfg.Configured() {
		return nil, ErrNotConfigured
	}

	amount := int64(math.Round(b.Price * 100))
	receipt := fmt.Sprintf("receipt_order_%d", b.ID)

	res, err := c.gateway.CreateOrder(map[string]interface{}{
		"amount":          amount,
		"currency":        c.currency,
		"receipt":         receipt,
		"payment_capture": 1,
		"notes": map[string]interface{}{
			"booking_id": fmt.Sprintf("%d", b.ID),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	id, _ := res["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("%w: order response has no id", ErrGateway)
	}

	c.log.Info("gateway order created",
		zap.Int64("booking_id", b.ID),
		zap.String("order_id", id),
		zap.Int64("amount", amount))

	return &Order{ID: id, Amount: amount, Currency: c.currency, Receipt: receipt}, nil
}

// Verify resolves a client-side payment against the gateway and drives the
// booking to its terminal state.
//
// Idempotence: an already-CONFIRMED booking returns success immediately,
// with no gateway call and no re-run of the confirmation pipeline. A booking
// in FAILED or CANCELLED never flips back.
func (c *Coordinator) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	if req.BookingID == 0 || req.PaymentID == "" || req.OrderID == "" {
		return nil, ErrValidation
	}

	b, err := c.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if b.Status == domain.BookingConfirmed {
		return &VerifyResult{Booking: b, AlreadyVerified: true}, nil
	}
	if b.Status.Terminal() {
		return nil, ErrConflict
	}

	if !c.cfg.Configured() {
		return nil, ErrNotConfigured
	}

	if req.Signature != "" {
		if !c.signatureValid(req.OrderID, req.PaymentID, req.Signature) {
			if err := c.fail(ctx, b, req); err != nil {
				return nil, err
			}
			return nil, ErrInvalidSignature
		}
	} else {
		c.log.Warn("verifying payment without gateway signature (reduced assurance)",
			zap.Int64("booking_id", b.ID))
	}

	status, fetchErr := c.fetchStatus(req.PaymentID)
	switch {
	case fetchErr != nil && c.allowUnverified:
		c.log.Warn("gateway unreachable, confirming without verification (PAYMENT_ALLOW_UNVERIFIED)",
			zap.Int64("booking_id", b.ID), zap.Error(fetchErr))
	case fetchErr != nil:
		// Transient: booking stays PENDING, the caller may retry safely.
		return nil, fmt.Errorf("%w: %v", ErrGateway, fetchErr)
	case status != "captured" && status != "authorized":
		c.log.Info("payment rejected by gateway",
			zap.Int64("booking_id", b.ID), zap.String("payment_status", status))
		if err := c.fail(ctx, b, req); err != nil {
			return nil, err
		}
		return nil, ErrNotCaptured
	}

	confirmed, sent, err := c.pipeline.Run(ctx, b, req.PaymentID, req.OrderID)
	if err != nil {
		if errors.Is(err, confirmation.ErrAlreadyDecided) {
			return c.resolveRace(ctx, req.BookingID)
		}
		return nil, err
	}

	return &VerifyResult{Booking: confirmed, NotificationSent: sent}, nil
}

// resolveRace handles the verify call that lost the conditional update: a
// concurrent call confirmed the booking first, or it had already failed.
func (c *Coordinator) resolveRace(ctx context.Context, bookingID int64) (*VerifyResult, error) {
	b, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == domain.BookingConfirmed {
		return &VerifyResult{Booking: b, AlreadyVerified: true}, nil
	}
	return nil, ErrConflict
}

func (c *Coordinator) fail(ctx context.Context, b *domain.Booking, req VerifyRequest) error {
	_, err := c.bookings.ConditionalUpdateStatus(ctx, b.ID, domain.BookingPending, domain.BookingFailed, map[string]interface{}{
		"payment_id": req.PaymentID,
		"order_id":   req.OrderID,
	})
	return err
}

func (c *Coordinator) fetchStatus(paymentID string) (string, error) {
	res, err := c.gateway.FetchPayment(paymentID)
	if err != nil {
		return "", err
	}
	status, _ := res["status"].(string)
	if status == "" {
		return "", errors.New("payment response has no status")
	}
	return status, nil
}

// signatureValid checks the checkout signature: HMAC-SHA256 over
// "<order_id>|<payment_id>" keyed with the gateway secret.
func (c *Coordinator) signatureValid(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.cfg.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
