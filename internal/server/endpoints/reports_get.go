package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mbenito/docueval/internal/api"
	"github.com/mbenito/docueval/internal/report"
	"github.com/mbenito/docueval/internal/store"
	"github.com/mbenito/docueval/internal/svcctx"
)

// PendingReportResponse is the stashed draft for one report id.
type PendingReportResponse struct {
	ReportID   string            `json:"report_id"`
	FileBase64 string            `json:"file_base64,omitempty"`
	Report     report.Report     `json:"report"`
	Meta       map[string]string `json:"meta,omitempty"`
}

// GetReportEndpoint handles GET /api/reports/{id}.
type GetReportEndpoint struct{}

var _ api.Endpoint = (*GetReportEndpoint)(nil)

func (e *GetReportEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/reports/{id}", e.handler
}

func (e *GetReportEndpoint) RequiresInit() bool { return true }

func (e *GetReportEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	pending := svcctx.StoreFrom(r.Context())
	if pending == nil {
		writeError(w, http.StatusServiceUnavailable, "store not initialized")
		return
	}

	payload, err := pending.Durable.Retrieve(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Recoverable: the caller falls back to session metadata.
			writeError(w, http.StatusNotFound, fmt.Sprintf("no pending report for id %s; detailed report could not be loaded", id))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, PendingReportResponse{
		ReportID:   id,
		FileBase64: payload.FileBase64,
		Report:     payload.Report,
		Meta:       pending.Session.LoadMeta(),
	})
}

func (e *GetReportEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <report-id>",
		Short: "Get a pending report by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp PendingReportResponse
			if err := client.Get(cmd.Context(), "/api/reports/"+args[0], &resp); err != nil {
				return err
			}
			// Do not dump the file payload on the terminal.
			resp.FileBase64 = ""
			return api.Output(resp)
		},
	}
}
