package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/labrelay/internal/api"
	"github.com/jackzampolin/labrelay/internal/cardinal"
	"github.com/jackzampolin/labrelay/internal/labs"
	"github.com/jackzampolin/labrelay/internal/metrics"
	"github.com/jackzampolin/labrelay/internal/svcctx"
)

const (
	// UploadField is the multipart field carrying the report.
	UploadField = "file"

	// RequestIDHeader echoes the identifier used in the server logs.
	RequestIDHeader = cardinal.RequestIDHeader

	// Parts above this size spill to temp files while parsing.
	maxUploadMemory = 32 << 20
)

// UploadResponse is the reply to a successful extraction.
type UploadResponse struct {
	DoctorViewRaw    json.RawMessage    `json:"doctor_view_raw" swaggertype:"object"`
	DoctorViewClean  []labs.Measurement `json:"doctor_view_clean"`
	PatientView      string             `json:"patient_view"`
	ExtractionStatus labs.OutcomeKind   `json:"extraction_status" enums:"parsed,not_found,malformed"`
	ExtractionError  string             `json:"extraction_error,omitempty"`
}

// UploadEndpoint handles POST /upload.
type UploadEndpoint struct{}

var _ api.Endpoint = (*UploadEndpoint)(nil)

func (e *UploadEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/upload", e.handler
}

func (e *UploadEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Upload a lab report
//	@Description	Forwards the report to the extraction vendor, annotates lab values against reference ranges and returns doctor and patient views.
//	@Description	A non-200 vendor reply is returned as {"error": <raw vendor body>} with status 200.
//	@Tags			reports
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"Report file (PDF or image)"
//	@Success		200		{object}	UploadResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/upload [post]
func (e *UploadEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := svcctx.RequestIDFrom(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
		w.Header().Set(RequestIDHeader, reqID)
		ctx = svcctx.WithRequestID(ctx, reqID)
	}

	logger := svcctx.LoggerFrom(ctx)
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("request_id", reqID)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	f, fh, err := r.FormFile(UploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("missing %q file field", UploadField))
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read uploaded file: %v", err))
		return
	}

	doc := cardinal.Document{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
		RequestID:   reqID,
	}
	m := metrics.Metric{
		RequestID: reqID,
		Filename:  doc.Filename,
		Bytes:     len(doc.Data),
		Pages:     logUpload(logger, doc),
	}
	recorder := svcctx.MetricsFrom(ctx)

	extractor := svcctx.ExtractorFrom(ctx)
	if extractor == nil {
		writeError(w, http.StatusServiceUnavailable, "extraction client not initialized")
		return
	}

	start := time.Now()
	result, err := extractor.Extract(ctx, doc)
	m.VendorSeconds = time.Since(start).Seconds()
	if err != nil {
		var vendorErr *cardinal.VendorError
		if errors.As(err, &vendorErr) {
			logger.Warn("vendor rejected extraction", "status", vendorErr.StatusCode)
			m.Outcome = metrics.OutcomeVendorError
			m.VendorStatus = vendorErr.StatusCode
			m.ErrorType = "vendor_status"
			recorder.Record(m)
			writeJSON(w, http.StatusOK, ErrorResponse{Error: vendorErr.Body})
			return
		}
		logger.Error("extraction request failed", "error", err)
		m.Outcome = metrics.OutcomeTransportError
		m.ErrorType = errorType(err)
		recorder.Record(m)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("extraction request failed: %v", err))
		return
	}
	logger.Debug("vendor raw response", "body", string(result.Body))

	outcome := labs.ExtractFromResponse(result.Raw)
	if outcome.Kind == labs.OutcomeMalformed {
		logger.Warn("embedded lab JSON is malformed", "reason", outcome.Reason)
	}

	ranges := svcctx.RangesFrom(ctx)
	if ranges == nil {
		ranges = labs.DefaultTable()
	}
	measurements := labs.Annotate(ranges, outcome.Labs)

	m.Outcome = string(outcome.Kind)
	m.Success = true
	m.VendorStatus = http.StatusOK
	m.LabCount = len(measurements)
	for _, lab := range measurements {
		if lab.Status == labs.StatusAbnormal {
			m.AbnormalCount++
		}
	}
	recorder.Record(m)

	logger.Info("report processed",
		"status", outcome.Kind,
		"labs", m.LabCount,
		"abnormal", m.AbnormalCount,
		"vendor_seconds", m.VendorSeconds,
	)

	writeJSON(w, http.StatusOK, UploadResponse{
		DoctorViewRaw:    json.RawMessage(result.Body),
		DoctorViewClean:  measurements,
		PatientView:      labs.Summarize(measurements),
		ExtractionStatus: outcome.Kind,
		ExtractionError:  outcome.Reason,
	})
}

// errorType classifies a failed vendor call for metrics.
func errorType(err error) string {
	switch {
	case errors.Is(err, cardinal.ErrInvalidResponse):
		return "invalid_response"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "timeout"
		}
		return "transport"
	}
}

// logUpload records what was received and returns the PDF page count, or 0.
// Page counts are informational and never reject the upload.
func logUpload(logger *slog.Logger, doc cardinal.Document) int {
	var pages int
	attrs := []any{
		"filename", doc.Filename,
		"content_type", doc.ContentType,
		"bytes", len(doc.Data),
	}
	if isPDF(doc) {
		n, err := pdfapi.PageCount(bytes.NewReader(doc.Data), nil)
		if err != nil {
			logger.Debug("could not read PDF page count", "error", err)
		} else {
			pages = n
			attrs = append(attrs, "pages", pages)
		}
	}
	logger.Info("report received", attrs...)
	return pages
}

func isPDF(doc cardinal.Document) bool {
	return doc.ContentType == "application/pdf" ||
		strings.EqualFold(filepath.Ext(doc.Filename), ".pdf") ||
		bytes.HasPrefix(doc.Data, []byte("%PDF-"))
}

func (e *UploadEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a lab report and print the annotated result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())

			var resp map[string]any
			if err := client.PostFile(cmd.Context(), "/upload", UploadField, args[0], &resp); err != nil {
				return err
			}
			if msg, ok := resp["error"].(string); ok && len(resp) == 1 {
				return fmt.Errorf("vendor error: %s", msg)
			}

			if outputFile != "" {
				return api.OutputToFile(resp, outputFile)
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVarP(&outputFile, "out-file", "f", "", "Write the result to a file")
	return cmd
}
