package handler

import (
	"net/http"

	"github.com/bloodlink-api/internal/application/registration"
	"github.com/bloodlink-api/internal/domain"
	"go.uber.org/zap"
)

// RegistrationHandler creates donor and camp accounts and signs them in.
type RegistrationHandler struct {
	svc     registration.Service
	cookies Cookies
	log     *zap.Logger
}

func NewRegistrationHandler(svc registration.Service, cookies Cookies, log *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, cookies: cookies, log: log}
}

func (h *RegistrationHandler) RegisterDonor(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterDonorRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.RegisterDonor(r.Context(), req)
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	h.cookies.set(w, res.Tokens)
	writeData(w, http.StatusCreated, res.Account, "Donor registered successfully")
}

func (h *RegistrationHandler) RegisterCamp(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterCampRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.RegisterCamp(r.Context(), req)
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	h.cookies.set(w, res.Tokens)
	writeData(w, http.StatusCreated, res.Account, "Donation Camp registered successfully , Awaiting blood bank approval")
}
