package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/slide-relay/internal/service/rebuild"
	"github.com/heartmarshall/slide-relay/pkg/ctxutil"
)

type rebuildScheduler interface {
	Schedule(requestedBy string) (rebuild.Task, error)
	Status() rebuild.Status
}

// AdminHandler serves admin REST endpoints.
type AdminHandler struct {
	rebuilds rebuildScheduler
	log      *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(rebuilds rebuildScheduler, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		rebuilds: rebuilds,
		log:      logger.With("handler", "admin"),
	}
}

type rebuildReportResponse struct {
	Deleted     int64  `json:"deleted"`
	Events      int    `json:"events"`
	Applied     int    `json:"applied"`
	Skipped     int    `json:"skipped"`
	Unprojected int    `json:"unprojected"`
	Failed      int    `json:"failed"`
	LastSeq     int64  `json:"lastSeq"`
	Duration    string `json:"duration"`
}

type rebuildStatusResponse struct {
	Pending     bool                   `json:"pending"`
	Running     bool                   `json:"running"`
	RequestedBy string                 `json:"requestedBy,omitempty"`
	RequestedAt *time.Time             `json:"requestedAt,omitempty"`
	LastReport  *rebuildReportResponse `json:"lastReport,omitempty"`
	LastError   string                 `json:"lastError,omitempty"`
}

// RebuildProjections queues a projection rebuild.
// POST /api/v1/admin/projections/rebuild
func (h *AdminHandler) RebuildProjections(w http.ResponseWriter, r *http.Request) {
	subject, _ := ctxutil.SubjectFromCtx(r.Context())

	task, err := h.rebuilds.Schedule(subject)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":      "scheduled",
		"requestedBy": task.RequestedBy,
		"requestedAt": task.RequestedAt,
	})
}

// RebuildStatus reports the state of the rebuild queue and the last run.
// GET /api/v1/admin/projections/rebuild
func (h *AdminHandler) RebuildStatus(w http.ResponseWriter, r *http.Request) {
	st := h.rebuilds.Status()

	resp := rebuildStatusResponse{
		Pending:   st.Pending,
		Running:   st.Running,
		LastError: st.LastError,
	}
	if st.LastTask != nil {
		resp.RequestedBy = st.LastTask.RequestedBy
		resp.RequestedAt = &st.LastTask.RequestedAt
	}
	if rep := st.LastReport; rep != nil {
		resp.LastReport = &rebuildReportResponse{
			Deleted:     rep.Deleted,
			Events:      rep.Events,
			Applied:     rep.Applied,
			Skipped:     rep.Skipped,
			Unprojected: rep.Unprojected,
			Failed:      rep.Failed,
			LastSeq:     rep.LastSeq,
			Duration:    rep.Duration.String(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
