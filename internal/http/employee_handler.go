package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"visadesk-data/internal/repository"
	"visadesk-data/internal/service"

	"go.uber.org/zap"
)

// EmployeeHandler serves the roster, record detail, manual edits and notes.
type EmployeeHandler struct {
	svc    *service.TrackerService
	logger *zap.Logger
}

func NewEmployeeHandler(svc *service.TrackerService, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, logger: logger}
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListEmployees(r.Context())
	if err != nil {
		h.logger.Error("list employees failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to list employees"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	detail, err := h.svc.GetEmployee(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, Fail("employee not found"))
			return
		}
		h.logger.Error("get employee failed", zap.String("id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to load employee"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(detail))
}

func (h *EmployeeHandler) PatchFlag(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		Flagged bool `json:"flagged"`
	}
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	entry, err := h.svc.ToggleFlag(r.Context(), id, body.Flagged, actorFrom(r))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, Fail("employee not found"))
			return
		}
		h.logger.Error("toggle flag failed", zap.String("id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to update flag"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(entry))
}

// EditCells applies a single raw-row cell edit. A no-op edit returns a nil
// entry: nothing was written and nothing was audited.
func (h *EmployeeHandler) EditCells(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		RowIndex *int           `json:"rowIndex"`
		Fields   map[string]any `json:"fields"`
	}
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if body.RowIndex == nil || len(body.Fields) == 0 {
		writeJSON(w, http.StatusBadRequest, Fail("rowIndex and fields are required"))
		return
	}
	entry, err := h.svc.EditCell(r.Context(), id, *body.RowIndex, body.Fields, actorFrom(r))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, Fail("employee not found"))
			return
		}
		writeJSON(w, http.StatusBadRequest, Fail(fmt.Sprintf("edit rejected: %v", err)))
		return
	}
	writeJSON(w, http.StatusOK, Ok(entry))
}

// Notes handles note add (POST) and remove (DELETE).
func (h *EmployeeHandler) Notes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var body struct {
			EmployeeID string `json:"employeeId"`
			Content    string `json:"content"`
		}
		if err := readBodyJSON(r, 1<<20, &body); err != nil || body.EmployeeID == "" || body.Content == "" {
			writeJSON(w, http.StatusBadRequest, Fail("employeeId and content are required"))
			return
		}
		note, err := h.svc.AddNote(r.Context(), body.EmployeeID, body.Content)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, Fail("employee not found"))
				return
			}
			writeJSON(w, http.StatusInternalServerError, Fail("failed to add note"))
			return
		}
		writeJSON(w, http.StatusOK, Ok(note))
	case http.MethodDelete:
		var body struct {
			EmployeeID string `json:"employeeId"`
			NoteID     string `json:"noteId"`
		}
		if err := readBodyJSON(r, 1<<20, &body); err != nil || body.EmployeeID == "" || body.NoteID == "" {
			writeJSON(w, http.StatusBadRequest, Fail("employeeId and noteId are required"))
			return
		}
		if err := h.svc.RemoveNote(r.Context(), body.EmployeeID, body.NoteID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, Fail("employee not found"))
				return
			}
			writeJSON(w, http.StatusNotFound, Fail(fmt.Sprintf("remove note failed: %v", err)))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"success": true}))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *EmployeeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.logger.Error("stats failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to compute stats"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(stats))
}
