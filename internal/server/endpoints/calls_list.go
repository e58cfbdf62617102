package endpoints

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mbenito/docueval/internal/api"
	"github.com/mbenito/docueval/internal/calls"
	"github.com/mbenito/docueval/internal/svcctx"
)

// CallsResponse lists recent generation calls, newest first.
type CallsResponse struct {
	Count int          `json:"count"`
	Calls []calls.Call `json:"calls"`
}

// ListCallsEndpoint handles GET /api/calls.
type ListCallsEndpoint struct{}

var _ api.Endpoint = (*ListCallsEndpoint)(nil)

func (e *ListCallsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/calls", e.handler
}

func (e *ListCallsEndpoint) RequiresInit() bool { return true }

func (e *ListCallsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	callStore := svcctx.CallStoreFrom(r.Context())
	if callStore == nil {
		writeError(w, http.StatusServiceUnavailable, "call log not available")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	list, err := callStore.List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CallsResponse{Count: len(list), Calls: list})
}

func (e *ListCallsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "calls",
		Short: "List recent report generation calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp CallsResponse
			path := fmt.Sprintf("/api/calls?limit=%d", limit)
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of calls to show")
	return cmd
}
