package httpapi

import (
	"net/http"

	"visadesk-data/internal/service"

	"go.uber.org/zap"
)

// AuditHandler serves the audit log, newest entries first.
type AuditHandler struct {
	svc    *service.TrackerService
	logger *zap.Logger
}

func NewAuditHandler(svc *service.TrackerService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{svc: svc, logger: logger}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 500)
	entries, err := h.svc.AuditLog(r.Context(), limit)
	if err != nil {
		h.logger.Error("list audit entries failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to list audit entries"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(entries))
}
