package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router wraps the standard library http.ServeMux; the API surface is
// small enough that no third-party router is warranted.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func requireMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}

// RegisterImportRoutes wires the import reconciliation endpoints.
func (r *Router) RegisterImportRoutes(h *ImportHandler) {
	r.Handle("/api/v1/import", requireMethod(http.MethodPost, h.Import))
	r.Handle("/api/v1/import/clear", requireMethod(http.MethodPost, h.Clear))
	r.Handle("/api/v1/import/reset", requireMethod(http.MethodPost, h.Reset))
	r.Handle("/api/v1/export", requireMethod(http.MethodGet, h.Export))
}

// RegisterEmployeeRoutes wires the roster, detail, edit and notes endpoints.
func (r *Router) RegisterEmployeeRoutes(h *EmployeeHandler) {
	r.Handle("/api/v1/employees", requireMethod(http.MethodGet, h.List))
	r.Handle("/api/v1/employees/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/api/v1/employees/")
		if rest == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if id, ok := strings.CutSuffix(rest, "/cells"); ok {
			if req.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			h.EditCells(w, req, id)
			return
		}
		if strings.Contains(rest, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch req.Method {
		case http.MethodGet:
			h.Get(w, req, rest)
		case http.MethodPatch:
			h.PatchFlag(w, req, rest)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	r.Handle("/api/v1/notes", h.Notes)
	r.Handle("/api/v1/stats", requireMethod(http.MethodGet, h.Stats))
}

// RegisterAuditRoutes wires the audit log read endpoint.
func (r *Router) RegisterAuditRoutes(h *AuditHandler) {
	r.Handle("/api/v1/audit", requireMethod(http.MethodGet, h.List))
}
