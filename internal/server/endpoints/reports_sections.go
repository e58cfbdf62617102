package endpoints

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mbenito/docueval/internal/api"
	"github.com/mbenito/docueval/internal/editor"
	"github.com/mbenito/docueval/internal/svcctx"
)

// SectionsResponse is the ordered render model of a report's sections.
type SectionsResponse struct {
	ReportID string               `json:"report_id"`
	Changed  bool                 `json:"changed"`
	Sections []editor.SectionView `json:"sections"`
}

// SectionsEndpoint handles GET /api/reports/{id}/sections.
type SectionsEndpoint struct{}

var _ api.Endpoint = (*SectionsEndpoint)(nil)

func (e *SectionsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/reports/{id}/sections", e.handler
}

func (e *SectionsEndpoint) RequiresInit() bool { return true }

func (e *SectionsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	sessionMgr := svcctx.SessionsFrom(r.Context())
	if sessionMgr == nil {
		writeError(w, http.StatusServiceUnavailable, "sessions not initialized")
		return
	}

	session, err := sessionMgr.Get(id)
	if err != nil {
		if errors.Is(err, editor.ErrNoSession) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SectionsResponse{
		ReportID: id,
		Changed:  session.Changed(),
		Sections: session.Render(),
	})
}

func (e *SectionsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "sections <report-id>",
		Short: "Show a report's sections in render order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SectionsResponse
			if err := client.Get(cmd.Context(), "/api/reports/"+args[0]+"/sections", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
