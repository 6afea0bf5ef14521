package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mirado/clinic-console-api/internal/middleware"
	"github.com/mirado/clinic-console-api/internal/models"
	"github.com/mirado/clinic-console-api/internal/store"
)

type CreateDocumentRequest struct {
	DocumentName  string   `json:"documentName" binding:"required"`
	AssignedUsers []string `json:"assignedUsers" binding:"required,min=1"` // account ids
}

// CreateDocument creates a document assigned to a set of approved accounts.
// The assignment stores a snapshot of each account's id/username/email as of
// now; later account edits do not propagate to existing documents.
func (h *Handler) CreateDocument(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owner := middleware.AdminEmailFromContext(c)
	ctx := c.Request.Context()

	approved, err := h.Accounts.ListByOwnerAndStatus(ctx, owner, models.StatusApproved)
	if err != nil {
		log.Printf("CreateDocument: account lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create document"})
		return
	}
	byID := make(map[string]models.Account, len(approved))
	for _, acc := range approved {
		byID[acc.ID.Hex()] = acc
	}

	snapshot := make([]models.AssignedUser, 0, len(req.AssignedUsers))
	for _, id := range req.AssignedUsers {
		acc, ok := byID[id]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Documents can only be assigned to your approved accounts"})
			return
		}
		snapshot = append(snapshot, models.AssignedUser{
			ID:       acc.ID.Hex(),
			Username: acc.Username,
			Email:    acc.Email,
		})
	}

	doc := models.Document{
		DocumentName:  strings.TrimSpace(req.DocumentName),
		AssignedUsers: snapshot,
	}
	id, err := h.Documents.Create(ctx, doc, owner)
	if err != nil {
		log.Printf("CreateDocument: insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create document"})
		return
	}

	created, err := h.Documents.GetByOwner(ctx, id, owner)
	if err != nil {
		log.Printf("CreateDocument: readback failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create document"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListDocuments returns the calling admin's documents.
func (h *Handler) ListDocuments(c *gin.Context) {
	owner := middleware.AdminEmailFromContext(c)
	docs, err := h.Documents.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		log.Printf("ListDocuments: query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve documents"})
		return
	}
	c.JSON(http.StatusOK, docs)
}

// DeleteDocument removes one of the calling admin's documents. The console
// asks the user to confirm before issuing this call.
func (h *Handler) DeleteDocument(c *gin.Context) {
	owner := middleware.AdminEmailFromContext(c)
	err := h.Documents.Delete(c.Request.Context(), c.Param("id"), owner)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		log.Printf("DeleteDocument: delete failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

// ExportDocument renders the assignment list as a two-column CSV download.
// Commas and quotes inside usernames or emails are written as-is; a username
// containing a comma shifts that row's columns.
func (h *Handler) ExportDocument(c *gin.Context) {
	owner := middleware.AdminEmailFromContext(c)
	doc, err := h.Documents.GetByOwner(c.Request.Context(), c.Param("id"), owner)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		log.Printf("ExportDocument: lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export document"})
		return
	}

	lines := make([]string, 0, len(doc.AssignedUsers)+1)
	lines = append(lines, "Username,Email")
	for _, u := range doc.AssignedUsers {
		lines = append(lines, u.Username+","+u.Email)
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.DocumentName+".csv"))
	c.Data(http.StatusOK, "text/csv", []byte(strings.Join(lines, "\n")))
}
