package web

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ukaji3/exsplit-go/internal/logging"
	"github.com/ukaji3/exsplit-go/pkg/exsplit"
)

// jobHeader carries the conversion job ID back to the client.
const jobHeader = "X-Job-ID"

// handleSplit partitions the uploaded workbook into fixed-size parts.
func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	s.convert(w, r, "split", func() (*exsplit.OutputBundle, error) {
		if err := s.parseForm(w, r); err != nil {
			return nil, err
		}

		rowsText := r.FormValue("rows")
		rows, err := strconv.Atoi(strings.TrimSpace(rowsText))
		if err != nil {
			return nil, exsplit.NewInvalidParameterError("rows", rowsText, "must be a positive integer")
		}

		src, err := formSource(r, "file")
		if err != nil {
			return nil, err
		}
		return exsplit.PartitionByRowCount(src, rows, r.FormValue("sheet_name"), exsplit.DefaultOptions())
	})
}

// handleFilter filters the uploaded workbook on one column.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	s.convert(w, r, "filter", func() (*exsplit.OutputBundle, error) {
		if err := s.parseForm(w, r); err != nil {
			return nil, err
		}

		headers := r.MultipartForm.File["file"]
		if len(headers) == 0 {
			return nil, fmt.Errorf("%w: no file provided in %q", errBadForm, "file")
		}
		if name := headers[0].Filename; !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
			return nil, fmt.Errorf("%w: %q", errInvalidFileType, name)
		}

		req, err := exsplit.NewFilterRequest(
			r.FormValue("col_name"),
			r.FormValue("mode"),
			r.FormValue("col_value"),
			r.FormValue("value_type"),
			r.FormValue("ext_workbook_name"),
		)
		if err != nil {
			return nil, err
		}

		src, err := readSource(headers[0])
		if err != nil {
			return nil, err
		}
		return exsplit.FilterByColumn(src, req, exsplit.DefaultOptions())
	})
}

// handleExtract pulls one column out of every uploaded workbook.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	s.convert(w, r, "extract", func() (*exsplit.OutputBundle, error) {
		if err := s.parseForm(w, r); err != nil {
			return nil, err
		}

		headers := r.MultipartForm.File["files"]
		srcs := make([]exsplit.Source, 0, len(headers))
		for _, fh := range headers {
			src, err := readSource(fh)
			if err != nil {
				return nil, err
			}
			srcs = append(srcs, src)
		}
		return exsplit.ExtractColumn(srcs, r.FormValue("col_name"), r.FormValue("new_col_name"), exsplit.DefaultOptions())
	})
}

// convert runs one conversion job and sends the packaged result as an
// attachment. The slot is taken before the request body is read, so uploads
// waiting for a slot are not held in memory. A job that outlives the request
// timeout writes nothing; the timeout middleware answers 504.
func (s *Server) convert(w http.ResponseWriter, r *http.Request, op string, run func() (*exsplit.OutputBundle, error)) {
	ctx := r.Context()
	jobID := uuid.NewString()
	w.Header().Set(jobHeader, jobID)
	logger := logging.WithFields(ctx, "job_id", jobID, "op", op)

	if err := s.limiter.acquire(ctx); err != nil {
		if ctx.Err() != nil {
			logger.Warn("request ended while waiting for a slot", "error", ctx.Err())
			return
		}
		respondError(w, r, err)
		return
	}
	defer s.limiter.release()

	start := time.Now()
	logger.Info("conversion started")

	var payload *exsplit.Payload
	bundle, err := run()
	if err == nil {
		payload, err = bundle.Package()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		logger.Warn("conversion finished after the request ended",
			"error", ctxErr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	logger.Info("conversion finished",
		"entries", len(bundle.Entries),
		"file", payload.Name,
		"bytes", len(payload.Data),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	sendAttachment(w, payload)
}

// parseForm reads the multipart form, capping the body at the configured
// upload size.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return fmt.Errorf("%w: %w", errBadForm, err)
	}
	return nil
}

// formSource reads the single uploaded file in field.
func formSource(r *http.Request, field string) (exsplit.Source, error) {
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return exsplit.Source{}, fmt.Errorf("%w: no file provided in %q", errBadForm, field)
	}
	return readSource(headers[0])
}

func readSource(fh *multipart.FileHeader) (exsplit.Source, error) {
	f, err := fh.Open()
	if err != nil {
		return exsplit.Source{}, fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return exsplit.Source{}, fmt.Errorf("read upload %q: %w", fh.Filename, err)
	}
	return exsplit.Source{Name: fh.Filename, Data: data}, nil
}

// sendAttachment writes payload as a file download.
func sendAttachment(w http.ResponseWriter, p *exsplit.Payload) {
	w.Header().Set("Content-Type", p.ContentType)
	w.Header().Set("Content-Disposition", contentDisposition(p.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(p.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(p.Data)
}

// contentDisposition builds an attachment header. Non-ASCII names are sent
// in the RFC 5987 filename* form alongside an ASCII fallback.
func contentDisposition(name string) string {
	fallback := exsplit.SecureFileName(name)
	if fallback == "" {
		fallback = "download"
	}
	if fallback == name {
		return fmt.Sprintf(`attachment; filename="%s"`, name)
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback, encodeRFC5987(name))
}

func encodeRFC5987(s string) string {
	var b strings.Builder
	for _, c := range []byte(s) {
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') ||
			strings.IndexByte("!#$&+-.^_`|~", c) >= 0 {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}
