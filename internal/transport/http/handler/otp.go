package handler

import (
	"net/http"

	"github.com/bloodlink-api/internal/application/verification"
	"github.com/bloodlink-api/internal/domain"
	"go.uber.org/zap"
)

type sendEmailOTPRequest struct {
	Email string `json:"email"`
}

type sendPhoneOTPRequest struct {
	Phone string `json:"phone"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// OTPHandler issues and checks verification codes for one account kind.
type OTPHandler struct {
	svc  verification.Service
	kind domain.AccountKind
	log  *zap.Logger
}

func NewOTPHandler(svc verification.Service, kind domain.AccountKind, log *zap.Logger) *OTPHandler {
	return &OTPHandler{svc: svc, kind: kind, log: log}
}

func (h *OTPHandler) SendEmailOTP(w http.ResponseWriter, r *http.Request) {
	var req sendEmailOTPRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := domain.ParseEmail(req.Email)
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	h.issue(w, r, c)
}

func (h *OTPHandler) SendPhoneOTP(w http.ResponseWriter, r *http.Request) {
	var req sendPhoneOTPRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := domain.ParsePhone(req.Phone)
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	h.issue(w, r, c)
}

func (h *OTPHandler) issue(w http.ResponseWriter, r *http.Request, c domain.Contact) {
	if err := h.svc.IssueCode(r.Context(), h.kind, c); err != nil {
		httpError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, nil, "OTP sent successfully to "+c.Address)
}

func (h *OTPHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if !decode(w, r, &req) {
		return
	}
	address := req.Email
	if address == "" {
		address = req.Phone
	}
	if err := h.svc.VerifyCode(r.Context(), address, req.OTP); err != nil {
		httpError(w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, nil, "OTP verified successfully")
}
