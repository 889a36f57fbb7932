package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"mime"
	"net/http"

	"github.com/dynamicsector/dynamicsector/internal/logger"
	"github.com/dynamicsector/dynamicsector/internal/starmap"
	"github.com/dynamicsector/dynamicsector/internal/storage"
	"github.com/dynamicsector/dynamicsector/internal/table"
	"github.com/dynamicsector/dynamicsector/internal/viz"
)

// uploadError is the only message a failed parse reports to the browser.
const uploadError = "ERROR"

const needBothUploads = "upload system data and a sector map first"

// uploadRequest is the JSON upload body: a filename and a data URL.
type uploadRequest struct {
	Filename string `json:"filename"`
	Contents string `json:"contents"`
}

type sessionResponse struct {
	Uploads []storage.Upload `json:"uploads"`
	Ready   bool             `json:"ready"`
}

// --- Handlers ---

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.db.CountSessions()
	if err != nil {
		log.Printf("[API] status: %v", err)
		writeError(w, http.StatusInternalServerError, "database unavailable")
		return
	}
	writeJSON(w, map[string]interface{}{
		"status":   "ok",
		"version":  s.Version,
		"sessions": sessions,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{Uploads: []storage.Upload{}}
	id, ok := s.sessionID(w, r, false)
	if !ok {
		writeJSON(w, resp)
		return
	}

	uploads, err := s.db.ListUploads(id)
	if err != nil {
		log.Printf("[API] list uploads: %v", err)
		writeError(w, http.StatusInternalServerError, "listing uploads failed")
		return
	}
	if uploads != nil {
		resp.Uploads = uploads
	}
	resp.Ready = len(uploads) == len(storage.Kinds)
	writeJSON(w, resp)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if id, ok := s.sessionID(w, r, false); ok {
		if err := s.db.DeleteSession(id); err != nil {
			log.Printf("[API] delete session: %v", err)
			writeError(w, http.StatusInternalServerError, "deleting session failed")
			return
		}
	}
	forgetSession(w)
	writeJSON(w, map[string]bool{"deleted": true})
}

// handleUpload accepts a JSON data-URL body or a multipart "file" field.
// POST /api/upload/{kind}
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	kind, err := storage.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	id, _ := s.sessionID(w, r, true)
	if !s.allowUpload(id) {
		writeError(w, http.StatusTooManyRequests, "too many uploads, slow down")
		return
	}

	filename, data, err := s.readUpload(w, r)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", s.cfg.MaxUploadBytes))
		return
	case errors.Is(err, table.ErrUnparseable):
		logger.Warn("Upload", fmt.Sprintf("%s %q unparseable: %v", kind, filename, table.Cause(err)))
		writeError(w, http.StatusUnprocessableEntity, uploadError)
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", s.cfg.MaxUploadBytes))
		return
	}

	tbl, err := table.Parse(filename, data)
	if err != nil {
		logger.Warn("Upload", fmt.Sprintf("%s %q unparseable: %v", kind, filename, table.Cause(err)))
		writeError(w, http.StatusUnprocessableEntity, uploadError)
		return
	}

	u, err := s.db.SaveUpload(id, kind, filename, tbl)
	if err != nil {
		log.Printf("[API] save upload: %v", err)
		writeError(w, http.StatusInternalServerError, "storing upload failed")
		return
	}
	log.Printf("[API] stored %s %q (%d rows)", kind, filename, u.Rows)
	writeJSON(w, map[string]interface{}{
		"stored": u.Filename,
		"kind":   u.Kind,
		"rows":   u.Rows,
	})
}

// readUpload returns the uploaded filename and raw bytes.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+64<<10)
		if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
			return "", nil, err
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return "", nil, fmt.Errorf("missing file field: %w", err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return hdr.Filename, nil, fmt.Errorf("reading file: %w", err)
		}
		return hdr.Filename, data, nil
	}

	// Base64 inflates payloads by 4/3.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*4/3+64<<10)
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", nil, fmt.Errorf("invalid upload body: %w", err)
	}
	if req.Filename == "" || req.Contents == "" {
		return "", nil, fmt.Errorf("filename and contents are required")
	}
	data, err := table.DecodeDataURL(req.Contents)
	if err != nil {
		return req.Filename, nil, err
	}
	return req.Filename, data, nil
}

// handleRender draws the session's stored tables.
// GET /api/render?mode=3d|2d
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	m := r.URL.Query().Get("mode")
	if m == "" {
		m = s.cfg.Mode
	}
	mode, err := viz.ParseMode(m)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, ok := s.sessionID(w, r, false)
	if !ok {
		writeError(w, http.StatusConflict, needBothUploads)
		return
	}
	systems, err := s.db.GetUpload(id, storage.KindSystems)
	if err != nil {
		s.uploadLookupError(w, err)
		return
	}
	sectors, err := s.db.GetUpload(id, storage.KindSectors)
	if err != nil {
		s.uploadLookupError(w, err)
		return
	}
	if err := s.db.TouchSession(id); err != nil {
		log.Printf("[API] touch session: %v", err)
	}

	key := id + "|" + string(mode) + "|" + systems.ContentHash + "|" + sectors.ContentHash
	v, err, shared := s.renders.Do(key, func() (interface{}, error) {
		return s.render(systems.Table, sectors.Table, mode)
	})
	if err != nil {
		if starmap.IsDataError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.Printf("[API] render: %v", err)
		writeError(w, http.StatusInternalServerError, "rendering failed")
		return
	}
	if shared {
		log.Printf("[API] render %s shared with a concurrent request", mode)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, v.(string))
}

func (s *Server) uploadLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusConflict, needBothUploads)
		return
	}
	log.Printf("[API] get upload: %v", err)
	writeError(w, http.StatusInternalServerError, "reading uploads failed")
}

// render runs the pipeline. A zero configured seed draws a fresh one.
func (s *Server) render(systems, sectors *table.Table, mode viz.Mode) (string, error) {
	seed := s.cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	scene, err := starmap.FromTables(systems, sectors, starmap.Options{
		Dim:      mode.Dim(),
		Seed:     seed,
		SunImage: s.cfg.SunImage,
	})
	if err != nil {
		return "", err
	}
	return viz.Render(scene, mode, viz.Options{Title: s.cfg.Title})
}
