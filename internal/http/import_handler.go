package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"visadesk-data/internal/importer"
	"visadesk-data/internal/service"

	"go.uber.org/zap"
)

// ImportHandler exposes the import reconciliation engine over HTTP:
// workbook upload, raw-row clearing, full reset and xlsx export.
type ImportHandler struct {
	svc    *service.TrackerService
	logger *zap.Logger
}

func NewImportHandler(svc *service.TrackerService, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{svc: svc, logger: logger}
}

// Import accepts a multipart workbook upload. Mode defaults to replace-all;
// ?mode=merge updates only the row history of already-known identities.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB max
		writeJSON(w, http.StatusBadRequest, Fail("failed to parse form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("file not found in request"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("failed to read file"))
		return
	}

	mode := importer.ModeReplaceAll
	if strings.EqualFold(r.URL.Query().Get("mode"), string(importer.ModeMerge)) {
		mode = importer.ModeMerge
	}

	result, err := h.svc.ImportFile(r.Context(), header.Filename, data, mode, actorFrom(r))
	if err != nil {
		h.logger.Error("import failed", zap.String("file", header.Filename), zap.Error(err))
		writeJSON(w, http.StatusUnprocessableEntity, Fail(fmt.Sprintf("import failed: %v", err)))
		return
	}
	if !result.HeadersOK {
		writeJSON(w, http.StatusOK, Warn(result,
			fmt.Sprintf("missing headers: %s", strings.Join(result.HeadersMissing, ", "))))
		return
	}
	writeJSON(w, http.StatusOK, Ok(result))
}

func (h *ImportHandler) Clear(w http.ResponseWriter, r *http.Request) {
	affected, err := h.svc.ClearRawRows(r.Context(), actorFrom(r))
	if err != nil {
		h.logger.Error("clear raw rows failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(fmt.Sprintf("clear failed: %v", err)))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"employeesCleared": affected}))
}

func (h *ImportHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetAll(r.Context(), actorFrom(r)); err != nil {
		h.logger.Error("reset failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(fmt.Sprintf("reset failed: %v", err)))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"employeesReset": true, "auditReset": true}))
}

// Export streams the full record set as an xlsx workbook, one row per raw
// history row.
func (h *ImportHandler) Export(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListEmployees(r.Context())
	if err != nil {
		h.logger.Error("export load failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(fmt.Sprintf("export failed: %v", err)))
		return
	}
	data, err := GenerateEmployeesExport(items)
	if err != nil {
		h.logger.Error("export generation failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(fmt.Sprintf("export failed: %v", err)))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=employees-export.xlsx")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// actorFrom reads the acting user from the header set by the auth layer in
// front of this service. Empty when the request is unattributed.
func actorFrom(r *http.Request) string {
	return r.Header.Get("X-Actor")
}
