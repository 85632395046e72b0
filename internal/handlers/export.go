package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"supplierhub/db"
	"supplierhub/internal/blob"
	"supplierhub/internal/export"

	"go.uber.org/zap"
)

type exportRequest struct {
	Type               string `json:"type"`
	IncludeContactInfo bool   `json:"includeContactInfo"`
	Filename           string `json:"filename"`
}

type exportResponse struct {
	Success     bool   `json:"success"`
	Filename    string `json:"filename"`
	FilePath    string `json:"filePath"`
	URL         string `json:"url"`
	RecordCount int    `json:"recordCount"`
	Type        string `json:"type"`
	Timestamp   string `json:"timestamp"`
}

type exportError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type exportContract struct {
	Endpoint    string            `json:"endpoint"`
	Method      string            `json:"method"`
	Description string            `json:"description"`
	Body        map[string]string `json:"body"`
	Response    map[string]string `json:"response"`
	Download    string            `json:"download"`
}

var contract = exportContract{
	Endpoint:    "/api/export",
	Method:      "POST",
	Description: "Exports the factory catalog as CSV into file storage under exports/.",
	Body: map[string]string{
		"type":               "all | contact | stats",
		"includeContactInfo": "boolean, optional, only for type=all",
		"filename":           "string, optional",
	},
	Response: map[string]string{
		"success":     "boolean",
		"filename":    "string",
		"filePath":    "string",
		"url":         "string",
		"recordCount": "number",
		"type":        "string",
		"timestamp":   "RFC 3339 string",
	},
	Download: "GET /api/export/download?type=all|contact|stats&format=csv|xlsx&includeContactInfo=true",
}

// ExportInfoHandler describes the export contract.
func ExportInfoHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, contract)
}

// ExportHandler writes a CSV export into file storage.
func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, exportError{Error: err.Error()})
		return
	}
	if !export.ValidType(req.Type) {
		writeJSON(w, http.StatusBadRequest, exportError{Error: "type must be one of all, contact, stats"})
		return
	}
	if h.Files == nil {
		writeJSON(w, http.StatusServiceUnavailable, exportError{Error: "file storage not configured"})
		return
	}

	factories, err := h.Store.ListFactories(r.Context(), db.FactoryFilter{})
	if err != nil {
		h.Log.Error("export: list factories", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, exportError{Error: "failed to load factories"})
		return
	}

	csv, err := export.CSV(req.Type, factories, req.IncludeContactInfo)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, exportError{Error: err.Error()})
		return
	}

	now := h.now().UTC()
	filename := exportFilename(req.Filename, req.Type, "csv", now)
	key := blob.ExportKey(filename)
	url, err := h.Files.Put(r.Context(), key, strings.NewReader(csv), int64(len(csv)), "text/csv; charset=utf-8")
	if err != nil {
		h.Log.Error("export: upload", zap.String("key", key), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, exportError{Error: "failed to write export file"})
		return
	}

	writeJSON(w, http.StatusOK, exportResponse{
		Success:     true,
		Filename:    filename,
		FilePath:    key,
		URL:         url,
		RecordCount: len(factories),
		Type:        req.Type,
		Timestamp:   now.Format(time.RFC3339),
	})
}

// DownloadExportHandler streams an export as CSV or XLSX.
func (h *Handler) DownloadExportHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	view := query.Get("type")
	if view == "" {
		view = export.TypeAll
	}
	if !export.ValidType(view) {
		writeJSON(w, http.StatusBadRequest, exportError{Error: "type must be one of all, contact, stats"})
		return
	}
	format := query.Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		writeJSON(w, http.StatusBadRequest, exportError{Error: "format must be csv or xlsx"})
		return
	}
	include := query.Get("includeContactInfo") == "true"

	factories, err := h.Store.ListFactories(r.Context(), db.FactoryFilter{})
	if err != nil {
		h.Log.Error("export: list factories", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, exportError{Error: "failed to load factories"})
		return
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = export.WriteXLSX(&buf, view, factories, include)
	} else {
		contentType = "text/csv; charset=utf-8"
		var csv string
		csv, err = export.CSV(view, factories, include)
		buf.WriteString(csv)
	}
	if err != nil {
		h.Log.Error("export: render", zap.String("format", format), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, exportError{Error: "failed to render export"})
		return
	}

	filename := exportFilename("", view, format, h.now().UTC())
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// exportFilename keeps only the base name of requested and enforces ext.
func exportFilename(requested, view, ext string, now time.Time) string {
	name := strings.TrimSpace(path.Base(strings.ReplaceAll(requested, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		name = fmt.Sprintf("factories-%s-%s", view, now.Format("20060102-150405"))
	}
	if !strings.HasSuffix(strings.ToLower(name), "."+ext) {
		name += "." + ext
	}
	return name
}
