package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mbenito/docueval/internal/api"
	"github.com/mbenito/docueval/internal/schema"
	"github.com/mbenito/docueval/internal/sections"
)

// SchemaResponse is the resolved schema and instruction for a document
// type, an operator debugging surface.
type SchemaResponse struct {
	DocumentType string          `json:"document_type"`
	Instruction  string          `json:"instruction"`
	SectionOrder []string        `json:"section_order"`
	Schema       json.RawMessage `json:"schema"`
}

// ResolveSchemaEndpoint handles GET /api/schema.
type ResolveSchemaEndpoint struct{}

var _ api.Endpoint = (*ResolveSchemaEndpoint)(nil)

func (e *ResolveSchemaEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/schema", e.handler
}

func (e *ResolveSchemaEndpoint) RequiresInit() bool { return false }

func (e *ResolveSchemaEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	documentType := r.URL.Query().Get("type")

	resolution := schema.Resolve(documentType)
	schemaJSON, err := resolution.Schema.JSONSchema()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SchemaResponse{
		DocumentType: documentType,
		Instruction:  resolution.Instruction,
		SectionOrder: sections.OrderFor(documentType),
		Schema:       schemaJSON,
	})
}

func (e *ResolveSchemaEndpoint) Command(getServerURL func() string) *cobra.Command {
	var documentType string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show the resolved schema and instruction for a document type",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := "/api/schema"
			if documentType != "" {
				path += "?type=" + documentType
			}
			var resp SchemaResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&documentType, "type", "", "Document type to resolve")
	return cmd
}
