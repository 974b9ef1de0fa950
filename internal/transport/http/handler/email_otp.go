package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/emailotp-api/internal/application/otp"
	"github.com/go-chi/chi/v5"
)

// EmailOTPHandler handles the email one-time-password endpoints.
type EmailOTPHandler struct {
	svc otp.Service
}

func NewEmailOTPHandler(svc otp.Service) *EmailOTPHandler {
	return &EmailOTPHandler{svc: svc}
}

func (h *EmailOTPHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "send":
		var req otp.SendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := h.svc.Send(r.Context(), req); err != nil {
			var ce *otp.CooldownError
			if errors.As(err, &ce) {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(ce.RetryAfter.Seconds()))))
				writeError(w, http.StatusTooManyRequests, ce.Error())
				return
			}
			slog.Error("send otp failed", "err", err)
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification code sent"})
	case "verify":
		var req otp.VerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := h.svc.Verify(r.Context(), req); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "email verified"})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
