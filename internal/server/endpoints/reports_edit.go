package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mbenito/docueval/internal/api"
	"github.com/mbenito/docueval/internal/editor"
	"github.com/mbenito/docueval/internal/report"
	"github.com/mbenito/docueval/internal/svcctx"
)

// EditResponse is returned after an edit operation is applied.
type EditResponse struct {
	ReportID string        `json:"report_id"`
	Changed  bool          `json:"changed"`
	Report   report.Report `json:"report"`
}

// EditEndpoint handles POST /api/reports/{id}/edit with one edit
// operation per request.
type EditEndpoint struct{}

var _ api.Endpoint = (*EditEndpoint)(nil)

func (e *EditEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/reports/{id}/edit", e.handler
}

func (e *EditEndpoint) RequiresInit() bool { return true }

func (e *EditEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var op editor.Op
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		writeError(w, http.StatusBadRequest, "invalid edit operation: "+err.Error())
		return
	}

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

	if err := session.Apply(op); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, EditResponse{
		ReportID: id,
		Changed:  session.Changed(),
		Report:   session.Draft(),
	})
}

func (e *EditEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		kind    string
		section string
		group   string
		row     int
		field   string
		value   string
	)

	cmd := &cobra.Command{
		Use:   "edit <report-id>",
		Short: "Apply one edit operation to a pending report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			op := editor.Op{
				Kind:    kind,
				Section: section,
				Group:   group,
				Row:     row,
				Field:   field,
				Value:   value,
			}
			var resp EditResponse
			if err := client.Post(cmd.Context(), "/api/reports/"+args[0]+"/edit", op, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "set_scalar", "Operation kind: set_scalar, set_row, add_row, set_field, set_group_text, add_record, toggle")
	cmd.Flags().StringVar(&section, "section", "", "Section key")
	cmd.Flags().StringVar(&group, "group", "", "Record group key (record-group sections)")
	cmd.Flags().IntVar(&row, "row", 0, "Row or record index")
	cmd.Flags().StringVar(&field, "field", "", "Record field name")
	cmd.Flags().StringVar(&value, "value", "", "New value")
	cmd.MarkFlagRequired("section")
	return cmd
}
