package handler

import (
	"log/slog"
	"net/http"
	"time"

	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
	"inkwell/internal/httputil"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	progress services.ProgressService
	logger   *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(progress services.ProgressService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		progress: progress,
		logger:   logger,
	}
}

// CreateDocument creates a new document
// POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req services.CreateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.AccountID = httputil.GetAccountID(r)

	doc, err := h.progress.CreateDocument(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// GetDocument retrieves a document by ID
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.progress.GetDocument(r.Context(), httputil.GetAccountID(r), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// ListDocuments lists the account's documents
// GET /api/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	documents, err := h.progress.ListDocuments(r.Context(), httputil.GetAccountID(r))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	if documents == nil {
		documents = []models.Document{}
	}

	httputil.RespondJSON(w, http.StatusOK, documentListResponse{
		Documents: documents,
		Total:     len(documents),
	})
}

// SaveDocument saves new content and reports the derived progress state
// PUT /api/documents/{id}/content
func (h *DocumentHandler) SaveDocument(w http.ResponseWriter, r *http.Request) {
	var req services.SaveDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.AccountID = httputil.GetAccountID(r)
	req.DocumentID = r.PathValue("id")

	result, err := h.progress.SaveDocument(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// FinishDocument finalizes a document, forcing the terminal snapshot
// POST /api/documents/{id}/finish
func (h *DocumentHandler) FinishDocument(w http.ResponseWriter, r *http.Request) {
	var req services.FinishDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.AccountID = httputil.GetAccountID(r)
	req.DocumentID = r.PathValue("id")

	doc, err := h.progress.FinishDocument(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// GetSnapshots lists a document's snapshot history, newest first
// GET /api/documents/{id}/snapshots
func (h *DocumentHandler) GetSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.progress.GetSnapshots(r.Context(), httputil.GetAccountID(r), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	if snapshots == nil {
		snapshots = []models.Snapshot{}
	}

	httputil.RespondJSON(w, http.StatusOK, snapshotListResponse{
		Snapshots: snapshots,
		Total:     len(snapshots),
	})
}

// DeleteDocument deletes a document and its snapshots
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.progress.DeleteDocument(r.Context(), httputil.GetAccountID(r), r.PathValue("id")); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint
// GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}
