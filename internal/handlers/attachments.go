package handlers

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"supplierhub/db"
	"supplierhub/internal/blob"
	"supplierhub/models"

	"go.uber.org/zap"
)

const maxAttachmentSize = 20 << 20

// UploadAttachmentHandler stores the multipart "file" under
// {rfqId}/{unixMillis}.{ext} and records its metadata.
func (h *Handler) UploadAttachmentHandler(w http.ResponseWriter, r *http.Request) {
	if h.Files == nil {
		writeError(w, http.StatusServiceUnavailable, "file storage not configured")
		return
	}
	rfq, ok := h.loadRFQ(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAttachmentSize+(1<<20))
	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		writeError(w, http.StatusBadRequest, "file is missing or larger than 20 MiB")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	if header.Size > maxAttachmentSize {
		writeError(w, http.StatusRequestEntityTooLarge, "file is larger than 20 MiB")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(header.Filename)); byExt != "" {
			contentType = byExt
		}
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := blob.AttachmentKey(rfq.ID, header.Filename, h.now())
	url, err := h.Files.Put(r.Context(), key, file, header.Size, contentType)
	if err != nil {
		h.Log.Error("upload attachment", zap.String("rfq_id", rfq.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to upload file: "+err.Error())
		return
	}

	a := models.RFQAttachment{
		RFQID:     rfq.ID,
		FileName:  filepath.Base(header.Filename),
		FileURL:   url,
		ObjectKey: key,
		FileSize:  header.Size,
		MimeType:  contentType,
	}
	if err := h.Store.CreateAttachment(r.Context(), &a); err != nil {
		h.Log.Error("record attachment", zap.String("rfq_id", rfq.ID), zap.Error(err))
		h.removeFile(r, key)
		writeError(w, http.StatusInternalServerError, "Failed to save attachment")
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *Handler) GetAttachmentsHandler(w http.ResponseWriter, r *http.Request) {
	rfq, ok := h.loadRFQ(w, r)
	if !ok {
		return
	}
	attachments, err := h.Store.ListAttachments(r.Context(), rfq.ID)
	if err != nil {
		h.Log.Error("list attachments", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to get attachments")
		return
	}
	writeJSON(w, http.StatusOK, attachments)
}

// DeleteAttachmentHandler drops the metadata row first and then the file.
// A failed file removal is logged and leaves the row deleted.
func (h *Handler) DeleteAttachmentHandler(w http.ResponseWriter, r *http.Request) {
	rfq, ok := h.loadRFQ(w, r)
	if !ok {
		return
	}

	attachmentID := pathID(r, "attachmentId")
	a, err := h.Store.GetAttachment(r.Context(), rfq.ID, attachmentID)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Attachment not found")
		return
	}
	if err != nil {
		h.Log.Error("load attachment", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete attachment")
		return
	}

	if err := h.Store.DeleteAttachment(r.Context(), rfq.ID, a.ID); err != nil && !errors.Is(err, db.ErrNotFound) {
		h.Log.Error("delete attachment", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete attachment")
		return
	}

	h.removeFile(r, a.ObjectKey)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeFile(r *http.Request, key string) {
	if h.Files == nil || key == "" {
		return
	}
	if err := h.Files.Remove(r.Context(), key); err != nil {
		h.Log.Warn("orphaned file left in storage", zap.String("key", key), zap.Error(err))
	}
}
