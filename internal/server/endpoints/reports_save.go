package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mbenito/docueval/internal/api"
	"github.com/mbenito/docueval/internal/editor"
	"github.com/mbenito/docueval/internal/persist"
	"github.com/mbenito/docueval/internal/svcctx"
)

// SaveRequest asks the server to file a pending report.
type SaveRequest struct {
	FileID string `json:"file_id"`
	Status string `json:"status,omitempty"`
}

// SaveResponse confirms a save.
type SaveResponse struct {
	ReportID string `json:"report_id"`
	FileID   string `json:"file_id"`
	Status   string `json:"status"`
}

// SaveEndpoint handles POST /api/reports/{id}/save: hands the edited
// report to the persistence API, then clears the stash and the session.
type SaveEndpoint struct{}

var _ api.Endpoint = (*SaveEndpoint)(nil)

func (e *SaveEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/reports/{id}/save", e.handler
}

func (e *SaveEndpoint) RequiresInit() bool { return true }

func (e *SaveEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid save request: "+err.Error())
		return
	}
	if req.FileID == "" {
		writeError(w, http.StatusBadRequest, "file_id is required")
		return
	}
	if req.Status == "" {
		req.Status = "evaluated"
	}

	sessionMgr := svcctx.SessionsFrom(r.Context())
	pending := svcctx.StoreFrom(r.Context())
	persistClient := svcctx.PersistFrom(r.Context())
	if sessionMgr == nil || pending == nil || persistClient == nil {
		writeError(w, http.StatusServiceUnavailable, "services not initialized")
		return
	}
	logger := svcctx.LoggerFrom(r.Context())

	session, err := sessionMgr.Get(id)
	if err != nil {
		if errors.Is(err, editor.ErrNoSession) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := persistClient.SaveReport(r.Context(), persist.SaveRequest{
		FileID: req.FileID,
		Report: session.Draft(),
		Status: req.Status,
	}); err != nil {
		writeError(w, http.StatusBadGateway, "failed to save report: "+err.Error())
		return
	}

	if err := pending.Clear(id); err != nil {
		logger.Warn("failed to clear pending report after save", "report_id", id, "error", err)
	}
	sessionMgr.Close(id)

	logger.Info("report saved", "report_id", id, "file_id", req.FileID, "status", req.Status)

	writeJSON(w, http.StatusOK, SaveResponse{
		ReportID: id,
		FileID:   req.FileID,
		Status:   req.Status,
	})
}

func (e *SaveEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		fileID string
		status string
	)

	cmd := &cobra.Command{
		Use:   "save <report-id>",
		Short: "Save a pending report through the persistence API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SaveResponse
			req := SaveRequest{FileID: fileID, Status: status}
			if err := client.Post(cmd.Context(), "/api/reports/"+args[0]+"/save", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&fileID, "file-id", "", "Document file id to attach the report to")
	cmd.Flags().StringVar(&status, "status", "evaluated", "Document status after save")
	cmd.MarkFlagRequired("file-id")
	return cmd
}

// CancelEndpoint handles DELETE /api/reports/{id}: explicit discard of a
// pending report.
type CancelEndpoint struct{}

var _ api.Endpoint = (*CancelEndpoint)(nil)

func (e *CancelEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/reports/{id}", e.handler
}

func (e *CancelEndpoint) RequiresInit() bool { return true }

func (e *CancelEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	sessionMgr := svcctx.SessionsFrom(r.Context())
	pending := svcctx.StoreFrom(r.Context())
	if sessionMgr == nil || pending == nil {
		writeError(w, http.StatusServiceUnavailable, "services not initialized")
		return
	}

	if err := pending.Clear(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sessionMgr.Close(id)

	writeJSON(w, http.StatusOK, map[string]string{"report_id": id, "status": "discarded"})
}

func (e *CancelEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <report-id>",
		Short: "Discard a pending report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			return client.Delete(cmd.Context(), "/api/reports/"+args[0])
		},
	}
}
