package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	apperrors "github.com/scribeav/go-transcribe-server/internal/errors"
	"github.com/scribeav/go-transcribe-server/payments"
)

// pendingPaymentKey names the cache entry holding a payment that has an
// open checkout session. The return handlers prefer this over a database
// read; the row is the fallback after a restart.
func pendingPaymentKey(id int64) string {
	return fmt.Sprintf("pay_%d", id)
}

// PaymentCreateHandler records a pending payment for the requested number
// of minutes and sends the buyer to the hosted checkout page. A checkout
// failure redirects to the failed route instead of surfacing an error
// page, so the SPA stays in control of the flow.
func (s *Server) PaymentCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())

		if s.checkout == nil {
			s.respondError(w, r, apperrors.Wrapf(apperrors.ErrDependencyFailure, "no checkout client configured"))
			return
		}

		quantity, err := strconv.ParseInt(r.FormValue("quantity"), 10, 64)
		if err != nil || quantity <= 0 {
			http.Error(w, "Invalid quantity", http.StatusBadRequest)
			return
		}

		payment, err := s.payments.Create(r.Context(), user.ID, quantity)
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		domain := s.config.GetDomain()
		checkoutURL, err := s.checkout.CreateSession(
			r.Context(),
			user.Name,
			quantity,
			fmt.Sprintf("%s%s?id=%d", domain, RoutePaymentSuccess, payment.ID),
			fmt.Sprintf("%s%s?id=%d", domain, RoutePaymentCancel, payment.ID),
		)
		if err != nil {
			log.Err(err).Int64("payment_id", payment.ID).Msg("failed to create checkout session")
			http.Redirect(w, r, fmt.Sprintf("%s%s?id=%d", domain, RoutePaymentFailed, payment.ID), http.StatusSeeOther)
			return
		}

		s.state.Set(pendingPaymentKey(payment.ID), payment)
		log.Info().Int64("payment_id", payment.ID).Str("url", checkoutURL).Msg("redirecting to checkout")
		http.Redirect(w, r, checkoutURL, http.StatusSeeOther)
	}
}

// PaymentSuccessHandler is the checkout success return URL: mark the
// payment as paid and credit the buyer's balance with the purchased
// minutes.
func (s *Server) PaymentSuccessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())
		domain := s.config.GetDomain()

		payment, ok := s.paymentCached(r, r.FormValue("id"))
		if !ok {
			log.Error().Str("id", r.FormValue("id")).Msg("success return for an unknown payment")
			http.Redirect(w, r, fmt.Sprintf("%s%s?id=%s", domain, RoutePaymentFailed, r.FormValue("id")), http.StatusSeeOther)
			return
		}
		if user.ID != payment.UserID {
			// Not fatal: the session cookie and the checkout session can
			// legitimately belong to different browser profiles.
			log.Warn().Int64("payee_id", payment.UserID).Int64("user_id", user.ID).Msg("payee is not the current user")
		}

		if err := s.payments.SetStatus(r.Context(), payment.ID, payments.StatusSuccess); err != nil {
			s.respondError(w, r, err)
			return
		}
		if err := s.users.SetCredit(r.Context(), user.ID, user.Credit+payment.Quantity); err != nil {
			s.respondError(w, r, err)
			return
		}
		s.state.Delete(pendingPaymentKey(payment.ID))

		log.Info().
			Int64("payment_id", payment.ID).
			Str("user", user.Name).
			Int64("old_credit", user.Credit).
			Int64("new_credit", user.Credit+payment.Quantity).
			Msg("payment succeeded, credit updated")
		http.Redirect(w, r, fmt.Sprintf("%s?event=success_pay&id=%d", domain, payment.ID), http.StatusSeeOther)
	}
}

// PaymentCancelHandler is the checkout cancel return URL.
func (s *Server) PaymentCancelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())
		log.Info().Str("user", user.Name).Msg("payment canceled by user")
		s.finishAbandonedPayment(w, r, payments.StatusCanceled)
	}
}

// PaymentFailedHandler is reached when the checkout session could not be
// created or the processor reported a failure.
func (s *Server) PaymentFailedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())
		log.Warn().Str("user", user.Name).Msg("payment failed")
		s.finishAbandonedPayment(w, r, payments.StatusFailed)
	}
}

// finishAbandonedPayment records the terminal status when the payment is
// still known and sends the browser back to the SPA. An unknown payment
// id is reported as id=-1 rather than an error, matching what the SPA
// expects on this path.
func (s *Server) finishAbandonedPayment(w http.ResponseWriter, r *http.Request, status payments.Status) {
	paymentID := int64(-1)
	if payment, ok := s.paymentCached(r, r.FormValue("id")); ok {
		paymentID = payment.ID
		if err := s.payments.SetStatus(r.Context(), payment.ID, status); err != nil {
			log.Err(err).Int64("payment_id", payment.ID).Msg("failed to record terminal payment status")
		}
		s.state.Delete(pendingPaymentKey(payment.ID))
	}
	http.Redirect(w, r, fmt.Sprintf("%s?event=success_failed&id=%d", s.config.GetDomain(), paymentID), http.StatusSeeOther)
}

// paymentCached resolves a payment by its string id, preferring the
// cached pending entry and falling back to the database row.
func (s *Server) paymentCached(r *http.Request, rawID string) (*payments.Payment, bool) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, false
	}

	if value, ok := s.state.Get(pendingPaymentKey(id)); ok {
		if payment, ok := value.(*payments.Payment); ok {
			return payment, true
		}
	}
	log.Warn().Int64("payment_id", id).Msg("payment is not cached, reading the row")

	payment, err := s.payments.Get(r.Context(), id)
	if err != nil {
		return nil, false
	}
	return payment, true
}
