// Package handlers provides HTTP handlers for the PDF duplication API.
//
// This package contains the main HTTP endpoints for session management,
// source upload, signature-area capture, batch duplication, result
// download, and distribution to the HR platform.
//
// Example usage:
//
//	h := handlers.NewAPIHandler(sessionManager, client, engine, uploadDir, 50)
//	r := chi.NewRouter()
//	r.Post("/api/sessions/", h.CreateSession)
//
// All handlers are designed to be used with the chi router.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-duplicatepdf/internal/batch"
	"go-duplicatepdf/internal/coords"
	"go-duplicatepdf/internal/humand"
	"go-duplicatepdf/internal/pdf"
	"go-duplicatepdf/internal/session"
	"go-duplicatepdf/internal/utils"
)

type APIHandler struct {
	SessionManager *session.SessionManager
	Humand         *humand.Client
	Engine         *pdf.Engine
	UploadDir      string
	MaxUploadMB    int64
}

func NewAPIHandler(sm *session.SessionManager, client *humand.Client, engine *pdf.Engine, uploadDir string, maxUploadMB int64) *APIHandler {
	return &APIHandler{
		SessionManager: sm,
		Humand:         client,
		Engine:         engine,
		UploadDir:      uploadDir,
		MaxUploadMB:    maxUploadMB,
	}
}

// batchEngine adapts the concrete pdf engine to the pipeline's interface.
type batchEngine struct {
	*pdf.Engine
}

func (e batchEngine) LoadCopy(src []byte) (batch.Document, error) {
	return e.Engine.LoadCopy(src)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// CreateSession godoc
// @Summary      Create a new session
// @Description  Creates a new duplication session and returns a session ID
// @Tags         sessions
// @Produce      json
// @Success      200  {object}  map[string]string  "{ sessionId: string }"
// @Router       /api/sessions/ [post]
func (h *APIHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.SessionManager.CreateSession()
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"sessionId": "%s"}`, session.ID)
}

// UploadSource godoc
// @Summary      Upload the source PDF
// @Description  Uploads the source PDF for the session; replaces any previous source and discards the committed signature area
// @Tags         source
// @Accept       multipart/form-data
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Param        pdf        formData  file    true  "Source PDF"
// @Success      200  {object}  map[string]interface{}  "{ name: string, pages: int, page_sizes: [] }"
// @Failure      400  {string}  string  "Bad request"
// @Failure      404  {string}  string  "Session not found"
// @Router       /api/sessions/{sessionID}/source [post]
func (h *APIHandler) UploadSource(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	sess, exists := h.SessionManager.GetSession(sessionID)
	if !exists {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	maxUploadSize := h.MaxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("pdf")
	if err != nil {
		http.Error(w, "Error retrieving file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if filepath.Ext(handler.Filename) != ".pdf" {
		http.Error(w, "Only PDF files are allowed", http.StatusBadRequest)
		return
	}

	header := make([]byte, 5)
	if _, err := file.Read(header); err != nil {
		http.Error(w, "Failed to read file", http.StatusBadRequest)
		return
	}
	if string(header) != "%PDF-" {
		http.Error(w, "Uploaded file is not a valid PDF", http.StatusBadRequest)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		http.Error(w, "Failed to process file", http.StatusInternalServerError)
		return
	}

	src, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	sizes, err := h.Engine.PageSizes(src)
	if err != nil {
		log.Printf("Error parsing uploaded PDF: %v", err)
		http.Error(w, "Uploaded file is not a valid PDF", http.StatusBadRequest)
		return
	}

	filename := fmt.Sprintf("%s-%s.pdf", utils.GenerateUUID(), utils.SanitizeFilename(strings.TrimSuffix(handler.Filename, ".pdf")))
	path := filepath.Join(h.UploadDir, filename)
	if err := os.WriteFile(path, src, 0644); err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	sess.SetSource(path, handler.Filename, sizes)

	writeJSON(w, http.StatusOK, map[string]any{
		"name":       handler.Filename,
		"size":       handler.Size,
		"pages":      len(sizes),
		"page_sizes": sizes,
	})
}

// SourceInfo godoc
// @Summary      Source document info
// @Description  Returns the page count and per-page dimensions in points
// @Tags         source
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  map[string]interface{}  "{ name: string, pages: int, page_sizes: [] }"
// @Failure      404  {string}  string  "Session or source not found"
// @Router       /api/sessions/{sessionID}/source/info [get]
func (h *APIHandler) SourceInfo(w http.ResponseWriter, r *http.Request) {
	sess, exists := h.SessionManager.GetSession(chi.URLParam(r, "sessionID"))
	if !exists {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	sess.Mutex.Lock()
	defer sess.Mutex.Unlock()
	if sess.SourcePath == "" {
		http.Error(w, "No source document uploaded", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":       sess.SourceName,
		"pages":      len(sess.PageSizes),
		"page_sizes": sess.PageSizes,
	})
}

type signatureAreaRequest struct {
	Page   int          `json:"page"`
	Canvas coords.Size  `json:"canvas"`
	Start  coords.Point `json:"start"`
	End    coords.Point `json:"end"`
}

// SetSignatureArea godoc
// @Summary      Commit a signature area
// @Description  Converts a drag on the rendered canvas to a normalized area bound to the page; rejects areas below 50x20 px or outside the page
// @Tags         signature
// @Accept       json
// @Produce      json
// @Param        sessionID  path  string                true  "Session ID"
// @Param        request    body  signatureAreaRequest  true  "Drag in canvas pixels"
// @Success      200  {object}  map[string]interface{}  "{ area: NormalizedArea }"
// @Failure      400  {string}  string  "Bad request"
// @Failure      404  {string}  string  "Session or source not found"
// @Failure      422  {object}  map[string]string  "{ error: too_small | out_of_bounds }"
// @Router       /api/sessions/{sessionID}/signature-area [put]
func (h *APIHandler) SetSignatureArea(w http.ResponseWriter, r *http.Request) {
	sess, exists := h.SessionManager.GetSession(chi.URLParam(r, "sessionID"))
	if !exists {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	var req signatureAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	sess.Mutex.Lock()
	defer sess.Mutex.Unlock()

	if sess.SourcePath == "" {
		http.Error(w, "No source document uploaded", http.StatusNotFound)
		return
	}
	if req.Page < 0 || req.Page >= len(sess.PageSizes) {
		http.Error(w, "Page does not exist in the document", http.StatusBadRequest)
		return
	}

	capture := sess.Capture
	capture.Begin(req.Start)
	capture.Move(req.End)
	if _, ok := capture.Release(); !ok {
		http.Error(w, "Invalid drag", http.StatusBadRequest)
		return
	}

	area, err := capture.Commit(req.Canvas, sess.PageSizes[req.Page], req.Page)
	if err != nil {
		reason := "invalid"
		switch {
		case errors.Is(err, coords.ErrTooSmall):
			reason = "too_small"
		case errors.Is(err, coords.ErrOutOfBounds):
			reason = "out_of_bounds"
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":   reason,
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"area": area})
}

// ClearSignatureArea godoc
// @Summary      Clear the signature area
// @Description  Discards the committed signature area
// @Tags         signature
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  map[string]bool  "{ success: true }"
// @Failure      404  {string}  string  "Session not found"
// @Router       /api/sessions/{sessionID}/signature-area [delete]
func (h *APIHandler) ClearSignatureArea(w http.ResponseWriter, r *http.Request) {
	sess, exists := h.SessionManager.GetSession(chi.URLParam(r, "sessionID"))
	if !exists {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	sess.Mutex.Lock()
	sess.Capture.Reset()
	sess.Mutex.Unlock()
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"success": true}`)
}

type duplicateRequest struct {
	Recipients    []batch.Recipient `json:"recipients"`
	NamingPattern string            `json:"naming_pattern"`
	Prefix        string            `json:"prefix"`
}

type resultView struct {
	Filename    string          `json:"filename"`
	Recipient   batch.Recipient `json:"recipient"`
	Success     bool            `json:"success"`
	Size        int             `json:"size,omitempty"`
	Error       string          `json:"error,omitempty"`
	DownloadURL string          `json:"download_url,omitempty"`
}

func resultViews(sessionID string, results []batch.Result) []resultView {
	views := make([]resultView, 0, len(results))
	for _, res := range results {
		v := resultView{
			Filename:  res.Filename,
			Recipient: res.Recipient,
			Success:   res.Succeeded(),
		}
		if res.Succeeded() {
			v.Size = len(res.Bytes)
			v.DownloadURL = fmt.Sprintf("/api/sessions/%s/files/%s", sessionID, res.Filename)
		} else {
			v.Error = res.Err.Error()
		}
		views = append(views, v)
	}
	return views
}

// Duplicate godoc
// @Summary      Duplicate the source PDF for all recipients
// @Description  Produces one personalized copy per recipient with the committed signature area drawn in; per-recipient failures are reported, never aborted on. Streams progress as SSE when the client accepts text/event-stream.
// @Tags         duplication
// @Accept       json
// @Produce      json
// @Param        sessionID  path  string            true  "Session ID"
// @Param        request    body  duplicateRequest  true  "Recipients and naming options"
// @Success      200  {object}  map[string]interface{}  "{ stats, results }"
// @Failure      400  {string}  string  "Bad request"
// @Failure      404  {string}  string  "Session or source not found"
// @Failure      409  {string}  string  "Duplication already in progress"
// @Router       /api/sessions/{sessionID}/actions/duplicate [post]
func (h *APIHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	sess, exists := h.SessionManager.GetSession(sessionID)
	if !exists {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	var req duplicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if len(req.Recipients) == 0 {
		http.Error(w, "At least one recipient is required", http.StatusBadRequest)
		return
	}

	sess.Mutex.Lock()
	if sess.Status == session.StatusInProgress {
		sess.Mutex.Unlock()
		http.Error(w, "Duplication already in progress", http.StatusConflict)
		return
	}
	if sess.SourcePath == "" {
		sess.Mutex.Unlock()
		http.Error(w, "No source document uploaded", http.StatusNotFound)
		return
	}
	sourcePath := sess.SourcePath
	area := sess.Capture.Committed()
	sess.Status = session.StatusInProgress
	sess.Mutex.Unlock()

	fail := func(status int, msg string) {
		sess.Mutex.Lock()
		sess.Status = session.StatusIdle
		sess.Mutex.Unlock()
		http.Error(w, msg, status)
	}

	src, err := os.ReadFile(sourcePath)
	if err != nil {
		log.Printf("Error reading source PDF: %v", err)
		fail(http.StatusInternalServerError, "Failed to read source document")
		return
	}

	opts := batch.Options{
		Pattern: batch.ParsePattern(req.NamingPattern),
		Prefix:  req.Prefix,
		Area:    area,
	}

	// Stream per-recipient progress when the client asked for SSE.
	streaming := strings.Contains(r.Header.Get("Accept"), "text/event-stream")
	var flusher http.Flusher
	if streaming {
		flusher, streaming = w.(http.Flusher)
	}
	if streaming {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		opts.OnProgress = func(p batch.Progress) {
			payload, _ := json.Marshal(map[string]any{
				"type":       "progress",
				"current":    p.Current,
				"total":      p.Total,
				"recipient":  p.Recipient,
				"percentage": p.Percentage,
			})
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}

	report, err := batch.DuplicateForAll(batchEngine{h.Engine}, src, req.Recipients, opts)
	if err != nil {
		log.Printf("Error duplicating PDFs: %v", err)
		if streaming {
			sess.Mutex.Lock()
			sess.Status = session.StatusIdle
			sess.Mutex.Unlock()
			payload, _ := json.Marshal(map[string]string{"type": "error", "error": err.Error()})
			fmt.Fprintf(w, "data: %s\n\n", payload)
			fmt.Fprint(w, "data: [DONE]\n\n")
			flusher.Flush()
			return
		}
		fail(http.StatusBadRequest, "Failed to duplicate PDF")
		return
	}

	sess.Mutex.Lock()
	sess.Report = report
	sess.Status = session.StatusDone
	sess.Mutex.Unlock()

	if streaming {
		payload, _ := json.Marshal(map[string]any{
			"type":    "complete",
			"stats":   report.Stats(),
			"results": resultViews(sessionID, report.Results),
		})
		fmt.Fprintf(w, "data: %s\n\n", payload)
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   report.Stats(),
		"results": resultViews(sessionID, report.Results),
	})
}

// Results godoc
// @Summary      Duplication report
// @Description  Returns the full ordered report of the last duplication run
// @Tags         duplication
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  map[string]interface{}  "{ stats, successful, failed }"
// @Failure      404  {string}  string  "Session or report not found"
// @Router       /api/sessions/{sessionID}/results [get]
func (h *APIHandler) Results(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	sess, exists := h.SessionManager.GetSession(sessionID)
	if !exists {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	sess.Mutex.Lock()
	report := sess.Report
	sess.Mutex.Unlock()
	if report == nil {
		http.Error(w, "No duplication results", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stats":      report.Stats(),
		"results":    resultViews(sessionID, report.Results),
		"successful": resultViews(sessionID, report.Successes()),
		"failed":     resultViews(sessionID, report.Failures()),
	})
}

// DownloadFile godoc
// @Summary      Download a generated copy
// @Description  Downloads one generated PDF from the last duplication run
// @Tags         duplication
// @Produce      application/pdf
// @Param        sessionID  path  string  true  "Session ID"
// @Param        filename   path  string  true  "Generated filename"
// @Success      200  {file}  file  "PDF file download"
// @Failure      404  {string}  string  "Session, report, or file not found"
// @Router       /api/sessions/{sessionID}/files/{filename} [get]
func (h *APIHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	sess, exists := h.SessionManager.GetSession(chi.URLParam(r, "sessionID"))
	if !exists {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	filename := chi.URLParam(r, "filename")

	sess.Mutex.Lock()
	report := sess.Report
	sess.Mutex.Unlock()
	if report == nil {
		http.Error(w, "No duplication results", http.StatusNotFound)
		return
	}
	res, ok := report.Find(filename)
	if !ok || !res.Succeeded() {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("Content-Type", "application/pdf")
	w.Write(res.Bytes)
}

type uploadRequest struct {
	FolderID         string `json:"folder_id"`
	SignatureStatus  string `json:"signature_status"`
	SendNotification bool   `json:"send_notification"`
}

// UploadDocuments godoc
// @Summary      Distribute generated copies
// @Description  Uploads every successfully generated copy to its recipient's folder on the HR platform; per-document failures are collected, not fatal
// @Tags         distribution
// @Accept       json
// @Produce      json
// @Param        sessionID  path  string         true  "Session ID"
// @Param        request    body  uploadRequest  true  "Destination folder and signature status"
// @Success      200  {object}  map[string]interface{}  "{ stats, successful, failed }"
// @Failure      400  {string}  string  "Bad request"
// @Failure      404  {string}  string  "Session or report not found"
// @Router       /api/sessions/{sessionID}/actions/upload [post]
func (h *APIHandler) UploadDocuments(w http.ResponseWriter, r *http.Request) {
	sess, exists := h.SessionManager.GetSession(chi.URLParam(r, "sessionID"))
	if !exists {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if req.FolderID == "" {
		http.Error(w, "A destination folder is required", http.StatusBadRequest)
		return
	}

	sess.Mutex.Lock()
	report := sess.Report
	area := sess.Capture.Committed()
	sess.Mutex.Unlock()
	if report == nil {
		http.Error(w, "No duplication results", http.StatusNotFound)
		return
	}

	type uploadView struct {
		Filename  string          `json:"filename"`
		Recipient batch.Recipient `json:"recipient"`
		Error     string          `json:"error,omitempty"`
		Status    int             `json:"status,omitempty"`
	}
	var successful, failed []uploadView

	for _, res := range report.Successes() {
		userID := res.Recipient.ID
		if userID == "" {
			userID = res.Recipient.EmployeeID
		}
		opts := humand.UploadOptions{
			FolderID:         req.FolderID,
			SignatureStatus:  req.SignatureStatus,
			SendNotification: req.SendNotification,
			Coordinates:      area,
		}
		_, err := h.Humand.UploadDocument(r.Context(), userID, res.Bytes, res.Filename, opts)
		if err != nil {
			log.Printf("Error uploading %s: %v", res.Filename, err)
			view := uploadView{Filename: res.Filename, Recipient: res.Recipient, Error: err.Error()}
			var apiErr *humand.APIError
			if errors.As(err, &apiErr) {
				view.Status = apiErr.Status
			}
			failed = append(failed, view)
			continue
		}
		successful = append(successful, uploadView{Filename: res.Filename, Recipient: res.Recipient})
	}

	total := len(successful) + len(failed)
	rate := 0.0
	if total > 0 {
		rate = float64(len(successful)) / float64(total) * 100
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stats": map[string]any{
			"total":        total,
			"successful":   len(successful),
			"failed":       len(failed),
			"success_rate": rate,
		},
		"successful": successful,
		"failed":     failed,
	})
}

// Segmentations godoc
// @Summary      List segmentations
// @Description  Lists user segment groups from the HR platform
// @Tags         platform
// @Produce      json
// @Success      200  {array}  humand.SegmentationGroup
// @Failure      502  {string}  string  "Platform unavailable"
// @Router       /api/segmentations [get]
func (h *APIHandler) Segmentations(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Humand.Segmentations(r.Context())
	if err != nil {
		log.Printf("Error fetching segmentations: %v", err)
		http.Error(w, "Failed to fetch segmentations", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// SegmentationUsers godoc
// @Summary      List users for segmentation items
// @Description  Returns the de-duplicated union of users across the given segmentation items
// @Tags         platform
// @Produce      json
// @Param        item_ids  query  string  true  "Comma-separated segmentation item IDs"
// @Success      200  {array}  humand.User
// @Failure      400  {string}  string  "Bad request"
// @Failure      502  {string}  string  "Platform unavailable"
// @Router       /api/segmentations/users [get]
func (h *APIHandler) SegmentationUsers(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("item_ids")
	if raw == "" {
		http.Error(w, "item_ids is required", http.StatusBadRequest)
		return
	}
	ids := strings.Split(raw, ",")
	users, err := h.Humand.UsersForSegmentations(r.Context(), ids)
	if err != nil {
		log.Printf("Error fetching users: %v", err)
		http.Error(w, "Failed to fetch users", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Folders godoc
// @Summary      List document folders
// @Description  Lists per-user document folders available as upload destinations
// @Tags         platform
// @Produce      json
// @Success      200  {array}  humand.Folder
// @Failure      502  {string}  string  "Platform unavailable"
// @Router       /api/folders [get]
func (h *APIHandler) Folders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.Humand.Folders(r.Context())
	if err != nil {
		log.Printf("Error fetching folders: %v", err)
		http.Error(w, "Failed to fetch folders", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, folders)
}
