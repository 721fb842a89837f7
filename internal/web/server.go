package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"audio-insight-go/internal/export"
	"audio-insight-go/internal/logger"
	"audio-insight-go/internal/session"
	"audio-insight-go/internal/types"
)

const (
	CookieName     = "audio_insight_session"
	formFileField  = "audio"
	formAPIKey     = "api_key"
	formCSVHeader  = "csv_header"
	multipartSlack = 1 << 20
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type Server struct {
	store     *session.Store
	log       *logger.Logger
	maxUpload int64
}

func NewServer(store *session.Store, log *logger.Logger, maxUpload int64) *Server {
	return &Server{store: store, log: log, maxUpload: maxUpload}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /settings", s.handleSettings)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("GET /audio", s.handleAudio)
	mux.HandleFunc("GET /export.csv", s.handleExportCSV)
	mux.HandleFunc("GET /export.xlsx", s.handleExportXLSX)
	mux.HandleFunc("GET /api/state", s.handleState)
	return mux
}

// session returns the caller's controller, creating one when the cookie is
// missing or expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Controller, string) {
	if c, err := r.Cookie(CookieName); err == nil {
		if ctrl, ok := s.store.Get(c.Value); ok {
			return ctrl, c.Value
		}
	}
	id, ctrl := s.store.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return ctrl, id
}

func (s *Server) reqLog(r *http.Request, handler, sessionID string) *logrus.Entry {
	return s.log.WithRequest(r).WithField("handler", handler).WithField("session_id", sessionID)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.log.WithRequest(r).Debug("health check")
	fmt.Fprint(w, "ok")
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctrl, id := s.session(w, r)
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, newPageData(ctrl.Snapshot())); err != nil {
		s.reqLog(r, "index", id).WithError(err).Error("render page failed")
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctrl, id := s.session(w, r)
	log := s.reqLog(r, "upload", id)

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartSlack)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		log.WithError(err).Warn("multipart parse failed")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "malformed upload", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	f, hdr, err := r.FormFile(formFileField)
	if err != nil {
		// nothing chosen in the picker
		redirectHome(w, r)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		log.WithError(err).Warn("read upload failed")
		http.Error(w, "read upload failed", http.StatusBadRequest)
		return
	}
	st := ctrl.SelectFile(types.AudioSelection{
		Name:     hdr.Filename,
		MimeType: hdr.Header.Get("Content-Type"),
		Size:     hdr.Size,
		Data:     data,
	})
	log.WithFields(logrus.Fields{"file_name": hdr.Filename, "file_size": hdr.Size, "phase": st.Phase}).Info("file selected")
	redirectHome(w, r)
}

// applySettings copies credential and template fields when the form sent them.
func applySettings(ctrl *session.Controller, r *http.Request) {
	if _, ok := r.PostForm[formAPIKey]; ok {
		if v := r.PostForm.Get(formAPIKey); v != ctrl.Snapshot().Credential {
			ctrl.SetCredential(v)
		}
	}
	if _, ok := r.PostForm[formCSVHeader]; ok {
		ctrl.SetTemplate(r.PostForm.Get(formCSVHeader))
	}
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	ctrl, id := s.session(w, r)
	if err := r.ParseForm(); err != nil {
		s.reqLog(r, "settings", id).WithError(err).Warn("form parse failed")
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	applySettings(ctrl, r)
	redirectHome(w, r)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctrl, id := s.session(w, r)
	log := s.reqLog(r, "analyze", id)
	if err := r.ParseForm(); err != nil {
		log.WithError(err).Warn("form parse failed")
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	applySettings(ctrl, r)
	st := ctrl.BeginAnalysisAsync(r.Context())
	log.WithField("phase", st.Phase).Info("analysis requested")
	redirectHome(w, r)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctrl, _ := s.session(w, r)
	ctrl.Reset()
	redirectHome(w, r)
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	ctrl, _ := s.session(w, r)
	st := ctrl.Snapshot()
	if st.File == nil {
		http.NotFound(w, r)
		return
	}
	// the declared type is client-controlled; only a WAV type is echoed back
	contentType := "audio/wav"
	if session.IsWAVMimeType(st.File.MimeType) {
		contentType = st.File.MimeType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, st.File.Name, time.Time{}, bytes.NewReader(st.File.Data))
}

func writeArtifact(w http.ResponseWriter, art export.Artifact) {
	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename))
	_, _ = w.Write(art.Body)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	ctrl, _ := s.session(w, r)
	art, ok := ctrl.ExportCSV()
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeArtifact(w, art)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	ctrl, id := s.session(w, r)
	art, ok, err := ctrl.ExportXLSX()
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.reqLog(r, "export_xlsx", id).WithError(err).Error("xlsx export failed")
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	writeArtifact(w, art)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	ctrl, id := s.session(w, r)
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ctrl.Snapshot()); err != nil {
		s.reqLog(r, "state", id).WithError(err).Error("failed to write response")
	}
}
