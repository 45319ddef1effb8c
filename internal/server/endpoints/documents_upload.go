package endpoints

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fieldscan/fieldscan/internal/api"
	"github.com/fieldscan/fieldscan/internal/document"
	"github.com/fieldscan/fieldscan/internal/store"
	"github.com/fieldscan/fieldscan/internal/svcctx"
)

// Upload size cap. Phone photos of field documents run a few MB each.
const maxUploadMemory = 50 << 20 // 50MB

// ExtractionResponse is the outcome of an upload, successful or not.
type ExtractionResponse struct {
	ID     string                  `json:"id"`
	Status string                  `json:"status"`
	Data   *document.FieldDocument `json:"data,omitempty"`
	Error  string                  `json:"error,omitempty"`
}

const (
	StatusCompleted = "completed"
	StatusError     = "error"
)

// UploadDocumentEndpoint handles POST /api/documents/upload with a
// multipart image upload.
type UploadDocumentEndpoint struct{}

var _ api.Endpoint = (*UploadDocumentEndpoint)(nil)

func (e *UploadDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/upload", e.handler
}

func (e *UploadDocumentEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Upload and extract a field document
//	@Description	Upload a photographed cargo document and run schema-constrained extraction on it
//	@Tags			documents
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"Document image"
//	@Success		200		{object}	ExtractionResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		415		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/documents/upload [post]
func (e *UploadDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	// Reject non-images before anything touches disk.
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusUnsupportedMediaType,
			fmt.Sprintf("file must be an image, got %s", contentType))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	docs := svcctx.StoreFrom(r.Context())
	if docs == nil {
		writeError(w, http.StatusServiceUnavailable, "document store not initialized")
		return
	}

	engine := svcctx.EngineFrom(r.Context())
	if engine == nil {
		writeError(w, http.StatusServiceUnavailable, "extraction engine not initialized")
		return
	}

	logger := svcctx.LoggerFrom(r.Context())

	id := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(header.Filename))

	if _, err := docs.SaveImage(id, ext, data); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save image: %v", err))
		return
	}

	extracted, err := engine.Extract(r.Context(), data)
	if err != nil {
		if logger != nil {
			logger.Error("extraction failed", "id", id, "filename", header.Filename, "error", err)
		}
		writeJSON(w, http.StatusOK, ExtractionResponse{
			ID:     id,
			Status: StatusError,
			Error:  err.Error(),
		})
		return
	}

	// Persist the result only once extraction has fully succeeded, so a
	// stored record always carries a valid document.
	rec := &store.Record{
		ID:          id,
		Filename:    header.Filename,
		ProcessedAt: time.Now().UTC(),
		Data:        extracted,
	}
	if err := docs.SaveResult(rec); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save result: %v", err))
		return
	}

	if logger != nil {
		logger.Info("document processed", "id", id, "filename", header.Filename)
	}

	writeJSON(w, http.StatusOK, ExtractionResponse{
		ID:     id,
		Status: StatusCompleted,
		Data:   extracted,
	})
}

func (e *UploadDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload a document image for extraction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())

			contentType := mime.TypeByExtension(filepath.Ext(args[0]))
			if contentType == "" {
				contentType = "image/jpeg"
			}

			var resp ExtractionResponse
			if err := client.PostFile(cmd.Context(), "/api/documents/upload", "file", args[0], contentType, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
