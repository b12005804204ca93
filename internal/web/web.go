package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/cleared-dev/statementform/internal/download"
	"github.com/cleared-dev/statementform/internal/form"
	"github.com/cleared-dev/statementform/internal/model"
	"github.com/cleared-dev/statementform/internal/selector"
	"github.com/cleared-dev/statementform/internal/uploader"
)

//go:embed templates/index.html
var templates embed.FS

var pageTmpl = template.Must(template.ParseFS(templates, "templates/index.html"))

// DefaultMaxUpload bounds the request body accepted by /process. A larger body
// fails like any other upload.
const DefaultMaxUpload = 32 << 20

// Server renders the form and relays uploads through it.
type Server struct {
	form      *form.Form
	vault     *download.Vault
	logger    *log.Logger
	maxUpload int64
	now       func() time.Time
}

// New returns a Server for f. Processed statements must be presented through v.
func New(f *form.Form, v *download.Vault, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		form:      f,
		vault:     v,
		logger:    logger,
		maxUpload: DefaultMaxUpload,
		now:       time.Now,
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/process", s.handleProcess)
	r.Get("/download/{id}", s.handleDownload)
	r.Post("/notices/{kind}/dismiss", s.handleDismiss)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

type page struct {
	View       form.View
	Notices    []pageNotice
	InFlight   bool
	Accept     string
	Filename   string
	DownloadID string
}

// pageNotice is a notice plus how long the page should keep showing it.
type pageNotice struct {
	Kind            model.NoticeKind
	Message         string
	RemainingMillis int64
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := s.form.Snapshot()
	p := page{
		View:     view,
		InFlight: view.State == model.StateInFlight,
		Accept:   selector.Accept,
		Filename: download.Filename,
	}
	now := s.now()
	duration := s.form.Notices().Duration()
	for _, n := range view.Notices {
		remaining := n.Shown.Add(duration).Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		p.Notices = append(p.Notices, pageNotice{
			Kind:            n.Kind,
			Message:         n.Message,
			RemainingMillis: remaining.Milliseconds(),
		})
	}
	if id := r.URL.Query().Get("download"); id != "" {
		if _, err := uuid.Parse(id); err == nil {
			p.DownloadID = id
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTmpl.Execute(w, p); err != nil {
		s.logger.Error("rendering form", "err", err)
	}
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	if err := r.ParseMultipartForm(s.maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		if s.form.State() == model.StateInFlight {
			s.busy(w)
			return
		}
		s.logger.Debug("unreadable upload", "err", err, "request_id", reqID)
		s.form.Notices().Show(model.NoticeError, form.MsgFailed)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	// No file part is the same as submitting without a selection.
	if part, header, err := r.FormFile(uploader.FieldName); err == nil {
		part.Close()
		if !selector.Matches(header.Filename) {
			s.logger.Warn("file does not look like a spreadsheet", "file", header.Filename, "request_id", reqID)
		}
		if err := s.form.Select(selector.FromUpload(header)); err != nil {
			s.busy(w)
			return
		}
	}

	ref, err := s.form.Submit(r.Context())
	switch {
	case errors.Is(err, form.ErrBusy):
		s.busy(w)
	case err != nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		http.Redirect(w, r, "/?download="+ref, http.StatusSeeOther)
	}
}

func (s *Server) busy(w http.ResponseWriter) {
	http.Error(w, "An upload is already in progress", http.StatusConflict)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	payload, err := s.vault.Claim(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", download.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+download.Filename+`"`)
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, download.Filename, time.Time{}, bytes.NewReader(payload))
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	kind, ok := model.ParseNoticeKind(chi.URLParam(r, "kind"))
	if !ok {
		http.Error(w, "Unknown notice", http.StatusBadRequest)
		return
	}
	s.form.Notices().Dismiss(kind)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
