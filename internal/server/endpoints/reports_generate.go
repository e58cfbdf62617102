package endpoints

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mbenito/docueval/internal/api"
	"github.com/mbenito/docueval/internal/generator"
	"github.com/mbenito/docueval/internal/report"
	"github.com/mbenito/docueval/internal/sections"
	"github.com/mbenito/docueval/internal/store"
	"github.com/mbenito/docueval/internal/svcctx"
)

// GenerateResponse is returned after a successful generation.
type GenerateResponse struct {
	ReportID     string        `json:"report_id"`
	DocumentType string        `json:"document_type,omitempty"`
	SectionOrder []string      `json:"section_order"`
	Report       report.Report `json:"report"`
}

// GenerateEndpoint handles POST /api/reports/generate with a multipart
// PDF upload. It runs the generator, stashes the pending report, and
// opens an editing session keyed by the new report id.
type GenerateEndpoint struct{}

var _ api.Endpoint = (*GenerateEndpoint)(nil)

func (e *GenerateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/reports/generate", e.handler
}

func (e *GenerateEndpoint) RequiresInit() bool { return true }

func (e *GenerateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form with 100MB max memory
	const maxMemory = 100 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	fh := files[0]
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file %s is not a PDF", fh.Filename))
		return
	}

	src, err := fh.Open()
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to open uploaded file: %v", err))
		return
	}
	document, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read uploaded file: %v", err))
		return
	}

	documentType := r.FormValue("document_type")

	gen := svcctx.GeneratorFrom(r.Context())
	pending := svcctx.StoreFrom(r.Context())
	sessionMgr := svcctx.SessionsFrom(r.Context())
	if gen == nil || pending == nil || sessionMgr == nil {
		writeError(w, http.StatusServiceUnavailable, "services not initialized")
		return
	}
	logger := svcctx.LoggerFrom(r.Context())

	generated, err := gen.Generate(r.Context(), document, documentType)
	if err != nil {
		switch {
		case generator.IsInputError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusBadGateway, "report generation failed, try again")
			logger.Error("generation failed", "document_type", documentType, "error", err)
		}
		return
	}

	reportID := uuid.New().String()
	if err := pending.Durable.Stash(reportID, store.Pending{
		FileBase64: base64.StdEncoding.EncodeToString(document),
		Report:     generated,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to stash report: %v", err))
		return
	}
	pending.Session.StashMeta(map[string]string{
		"report_id":     reportID,
		"document_type": documentType,
		"file_name":     fh.Filename,
	})

	sessionMgr.Open(reportID, generated, documentType, nil)

	logger.Info("report stashed for review", "report_id", reportID, "document_type", documentType)

	writeJSON(w, http.StatusCreated, GenerateResponse{
		ReportID:     reportID,
		DocumentType: documentType,
		SectionOrder: sections.OrderFor(documentType),
		Report:       generated,
	})
}

func (e *GenerateEndpoint) Command(getServerURL func() string) *cobra.Command {
	var documentType string

	cmd := &cobra.Command{
		Use:   "generate <file.pdf>",
		Short: "Generate an evaluation report for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			fields := map[string]string{}
			if documentType != "" {
				fields["document_type"] = documentType
			}
			var resp GenerateResponse
			if err := client.PostFile(cmd.Context(), "/api/reports/generate", "file", args[0], fields, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&documentType, "type", "", "Document type (e.g. \"terms of reference\")")
	return cmd
}
