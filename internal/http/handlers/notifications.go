package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/arogyalabs/diagnostics-platform/internal/config"
	"github.com/arogyalabs/diagnostics-platform/internal/http/middleware"
	"github.com/arogyalabs/diagnostics-platform/internal/notify"
	"github.com/arogyalabs/diagnostics-platform/pkg/logging"
)

// NotificationsHandler serves admin notification introspection and test
// sends.
type NotificationsHandler struct {
	cfg     *config.Config
	service *notify.Service
	email   notify.EmailSender
	logger  *logging.Logger
}

func NewNotificationsHandler(cfg *config.Config, service *notify.Service, email notify.EmailSender, logger *logging.Logger) *NotificationsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &NotificationsHandler{
		cfg:     cfg,
		service: service,
		email:   email,
		logger:  logger,
	}
}

// GetStatus returns the notification system status document.
// GET /admin/notifications/status
func (h *NotificationsHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status := notify.BuildStatus(r.Context(), h.cfg, h.email)
	jsonResponse(w, http.StatusOK, status)
}

// TestSendRequest asks for a synthetic message on one or both channels.
type TestSendRequest struct {
	Type      string `json:"type"`
	Recipient string `json:"recipient"`
	Phone     string `json:"phone"`
}

// TestSendResponse reports per-channel outcomes of a test send.
type TestSendResponse struct {
	Success bool          `json:"success"`
	Results notify.Result `json:"results"`
}

// SendTest sends a synthetic notification through the real delivery path.
// POST /admin/notifications/test
func (h *NotificationsHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	var req TestSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	kind := strings.ToLower(strings.TrimSpace(req.Type))
	if kind == "" {
		kind = notify.ChannelEmail
	}

	wantEmail := kind == notify.ChannelEmail || kind == "both"
	wantSMS := kind == notify.ChannelSMS || kind == "both"
	if !wantEmail && !wantSMS {
		jsonError(w, "type must be email, sms or both", http.StatusBadRequest)
		return
	}
	if wantEmail && req.Recipient == "" {
		jsonError(w, "recipient is required for email tests", http.StatusBadRequest)
		return
	}
	if wantSMS && req.Phone == "" {
		jsonError(w, "phone is required for sms tests", http.StatusBadRequest)
		return
	}

	if claims, ok := middleware.AdminClaimsFromContext(r.Context()); ok {
		h.logger.Info("admin test notification requested", "type", kind, "requested_by", claims.Email)
	}

	resp := TestSendResponse{Success: true, Results: notify.Result{}}
	if wantEmail {
		out := h.service.SendTestNotification(r.Context(), notify.ChannelEmail, req.Recipient)
		resp.Results[notify.ChannelEmail] = out
		resp.Success = resp.Success && out.Success
	}
	if wantSMS {
		out := h.service.SendTestNotification(r.Context(), notify.ChannelSMS, req.Phone)
		resp.Results[notify.ChannelSMS] = out
		resp.Success = resp.Success && out.Success
	}

	jsonResponse(w, http.StatusOK, resp)
}
