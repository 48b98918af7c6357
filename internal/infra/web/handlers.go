package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/model"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/domain/ports/repository"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/logging"
	"github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/metrics"
	red "github.com/kingsley25-dev/kingsley-wifi-nexus/internal/infra/redis"
)

// ---- wire types ----

type packagePayload struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	PriceKES      int64  `json:"price_kes"`
	SpeedMbps     int    `json:"speed_mbps"`
	DurationHours int    `json:"duration_hours"`
	DurationDays  int    `json:"duration_days,omitempty"`
	Description   string `json:"description"`
	Popular       bool   `json:"popular"`
}

func packageToPayload(p *model.WifiPackage) packagePayload {
	return packagePayload{
		ID:            p.ID,
		Name:          p.Name,
		PriceKES:      p.PriceKES,
		SpeedMbps:     p.SpeedMbps,
		DurationHours: p.DurationHours,
		DurationDays:  p.DurationDays(),
		Description:   p.Description,
		Popular:       p.Popular,
	}
}

type purchasePayload struct {
	ID          string     `json:"id"`
	Reference   string     `json:"reference"`
	Status      string     `json:"status"`
	AmountKES   int64      `json:"amount_kes"`
	CreatedAt   time.Time  `json:"created_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

func purchaseToPayload(p *model.Purchase) purchasePayload {
	return purchasePayload{
		ID:          p.ID,
		Reference:   p.Reference,
		Status:      string(p.Status),
		AmountKES:   p.AmountKES,
		CreatedAt:   p.CreatedAt,
		ConfirmedAt: p.ConfirmedAt,
	}
}

type codePayload struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	Used      bool       `json:"used"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

func codeToPayload(c *model.ActivationCode) codePayload {
	return codePayload{
		ID:        c.ID,
		Code:      c.Code,
		IssuedAt:  c.IssuedAt,
		ExpiresAt: c.ExpiresAt,
		Used:      c.Used,
		UsedAt:    c.UsedAt,
	}
}

type sessionPayload struct {
	ID               string    `json:"id"`
	CustomerPhone    string    `json:"customer_phone"`
	PackageLabel     string    `json:"package_label"`
	RemainingMinutes int       `json:"remaining_minutes"`
	Online           bool      `json:"online"`
	ActivatedAt      time.Time `json:"activated_at"`
	AmountPaidKES    int64     `json:"amount_paid_kes"`
}

func sessionToPayload(s model.Session) sessionPayload {
	return sessionPayload{
		ID:               s.ID,
		CustomerPhone:    s.CustomerPhone,
		PackageLabel:     s.PackageLabel,
		RemainingMinutes: s.RemainingMinutes,
		Online:           s.Online,
		ActivatedAt:      s.ActivatedAt,
		AmountPaidKES:    s.AmountPaidKES,
	}
}

type ledgerEntryPayload struct {
	codePayload
	PhoneNumber string `json:"phone_number"`
	PackageName string `json:"package_name"`
	PriceKES    int64  `json:"price_kes"`
}

func ledgerEntryToPayload(e *repository.LedgerEntry) ledgerEntryPayload {
	return ledgerEntryPayload{
		codePayload: codeToPayload(&e.Code),
		PhoneNumber: e.PhoneNumber,
		PackageName: e.PackageName,
		PriceKES:    e.PriceKES,
	}
}

// ---- helpers ----

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinels onto HTTP status codes. Unknown errors
// collapse to 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidPhoneNumber):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrCodeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrAlreadyNotified), errors.Is(err, domain.ErrCodeAlreadyUsed):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrCodeExpired):
		status = http.StatusGone
	case errors.Is(err, domain.ErrNotAllowListed), errors.Is(err, domain.ErrBadCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// ---- storefront ----

func (s *Server) handlePackagesList(w http.ResponseWriter, r *http.Request) {
	pkgs, err := s.catalogUC.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	data := make([]packagePayload, 0, len(pkgs))
	for _, p := range pkgs {
		data = append(data, packageToPayload(p))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

type purchaseInitiateRequest struct {
	PackageID   string `json:"package_id"`
	PhoneNumber string `json:"phone_number"`
}

func (s *Server) handlePurchaseInitiate(w http.ResponseWriter, r *http.Request) {
	var req purchaseInitiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx := logging.WithPhone(r.Context(), req.PhoneNumber)
	if s.limiter != nil && model.ValidPhoneNumber(req.PhoneNumber) {
		allowed, err := s.limiter.Allow(ctx, red.PhonePurchaseKey(req.PhoneNumber), s.rateLimit, s.rateWindow)
		if err != nil {
			s.log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		} else if !allowed {
			writeError(w, domain.ErrRateLimited)
			return
		}
	}

	purchase, payURL, err := s.purchaseUC.Initiate(ctx, req.PackageID, req.PhoneNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.IncPurchase("pending")
	logging.With(ctx, s.log).Info().Str("purchase_id", purchase.ID).Msg("purchase initiated")
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"purchase": purchaseToPayload(purchase),
		"pay_url":  payURL,
	})
}

type purchaseConfirmRequest struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

func (s *Server) handlePurchaseConfirm(w http.ResponseWriter, r *http.Request) {
	defer logging.TraceDuration(s.log, "web.purchase_confirm")()

	var req purchaseConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Reference == "" {
		http.Error(w, "reference is required", http.StatusBadRequest)
		return
	}

	ok := req.Status == "success"
	purchase, err := s.purchaseUC.ConfirmByReference(r.Context(), req.Reference, ok)
	if err != nil {
		writeError(w, err)
		return
	}

	if purchase.Status == model.PurchaseStatusConfirmed && purchase.ActivationCodeID != nil {
		metrics.IncPurchase("confirmed")
		metrics.IncCodeIssued()
		metrics.AddPurchaseRevenue(purchase.AmountKES)
		s.dispatchNotify(r.Context(), *purchase.ActivationCodeID)
	} else if purchase.Status == model.PurchaseStatusFailed {
		metrics.IncPurchase("failed")
	}

	writeJSON(w, http.StatusOK, purchaseToPayload(purchase))
}

// dispatchNotify queues the ops notification for a freshly issued code.
// Notify is at-most-once per code, so requeueing on a gateway callback
// retry is harmless.
func (s *Server) dispatchNotify(ctx context.Context, codeID string) {
	if s.pool == nil {
		return
	}
	// The request context ends with the response; keep its trace id so
	// the background send correlates back to the gateway callback.
	traceID := logging.TraceIDFrom(ctx)
	err := s.pool.Submit(func(ctx context.Context) error {
		err := s.ledgerUC.Notify(ctx, codeID)
		if errors.Is(err, domain.ErrAlreadyNotified) {
			metrics.IncCodeNotification("duplicate")
			return nil
		}
		if err != nil {
			metrics.IncCodeNotification("failed")
			return err
		}
		metrics.IncCodeNotification("sent")
		s.log.Info().Str("trace_id", traceID).Str("code_id", codeID).Msg("ops notification sent")
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Str("code_id", codeID).Msg("notify dispatch dropped")
	}
}

func (s *Server) handlePurchaseGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	purchase, code, err := s.purchaseUC.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := map[string]interface{}{"purchase": purchaseToPayload(purchase)}
	if code != nil {
		resp["code"] = codeToPayload(code)
	}
	writeJSON(w, http.StatusOK, resp)
}

type activateRequest struct {
	Code        string `json:"code"`
	PhoneNumber string `json:"phone_number"`
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	ctx := logging.WithPhone(r.Context(), req.PhoneNumber)
	session, err := s.activationUC.Redeem(ctx, req.Code, req.PhoneNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.IncCodeRedeemed()
	logging.With(ctx, s.log).Info().Str("session_id", session.ID).Msg("code redeemed")
	writeJSON(w, http.StatusOK, sessionToPayload(session))
}

// ---- console ----

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	admin, err := s.adminUC.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotAllowListed):
			metrics.IncAdminLogin("not_allow_listed")
		case errors.Is(err, domain.ErrBadCredentials):
			metrics.IncAdminLogin("bad_credentials")
		}
		writeError(w, err)
		return
	}
	token, err := s.auth.Mint(w, admin.Username, admin.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.IncAdminLogin("ok")
	writeJSON(w, http.StatusOK, map[string]string{
		"token":    token,
		"username": admin.Username,
		"role":     admin.Role,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	totals, err := s.statsUC.Totals(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleCodesList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ledgerUC.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	data := make([]ledgerEntryPayload, 0, len(entries))
	for _, e := range entries {
		data = append(data, ledgerEntryToPayload(e))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

func (s *Server) handleCodeNotify(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.ledgerUC.Notify(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrAlreadyNotified) {
			metrics.IncCodeNotification("duplicate")
		}
		writeError(w, err)
		return
	}
	metrics.IncCodeNotification("sent")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePackageCreate(w http.ResponseWriter, r *http.Request) {
	var req packagePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	pkg, err := s.catalogUC.Create(r.Context(), req.Name, req.PriceKES, req.SpeedMbps, req.DurationHours, req.Description, req.Popular)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, packageToPayload(pkg))
}

func (s *Server) handlePackageUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req packagePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	existing, err := s.catalogUC.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	existing.Name = req.Name
	existing.PriceKES = req.PriceKES
	existing.SpeedMbps = req.SpeedMbps
	existing.DurationHours = req.DurationHours
	existing.Description = req.Description
	existing.Popular = req.Popular
	if err := s.catalogUC.Update(r.Context(), existing); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, packageToPayload(existing))
}

func (s *Server) handlePackageDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.catalogUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionsList(w http.ResponseWriter, r *http.Request) {
	sessions := s.monitor.Search(r.URL.Query().Get("q"))
	data := make([]sessionPayload, 0, len(sessions))
	for _, sess := range sessions {
		data = append(data, sessionToPayload(sess))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

func (s *Server) handleSessionDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.monitor.ForceDisconnect(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	metrics.IncSessionForceDisconnect()
	w.WriteHeader(http.StatusNoContent)
}
