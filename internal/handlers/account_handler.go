package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/mirado/clinic-console-api/internal/middleware"
	"github.com/mirado/clinic-console-api/internal/models"
	"github.com/mirado/clinic-console-api/internal/store"
)

type CreateAccountRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"omitempty,oneof=admin user"`
}

// CreateAccount creates an end-user account owned by the calling admin.
// New accounts start pending; the portal admits them once approved.
func (h *Handler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	owner := middleware.AdminEmailFromContext(c)
	ctx := c.Request.Context()

	// Portal identity is global by email, so the email must be unique across
	// all tenants, not just this admin's.
	if _, err := h.Accounts.GetByEmail(ctx, req.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		return
	}

	acc := models.Account{
		Username: req.Username,
		Email:    req.Email,
		Role:     role,
		Status:   models.StatusPending,
	}

	if _, err := h.Accounts.Create(ctx, acc, owner); err != nil {
		if mongo.IsDuplicateKeyError(err) || errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
			return
		}
		log.Printf("CreateAccount: insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	created, err := h.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("CreateAccount: readback failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListAccounts returns the calling admin's accounts, optionally filtered by
// status (e.g. /api/accounts?status=approved for the assignment picker).
func (h *Handler) ListAccounts(c *gin.Context) {
	owner := middleware.AdminEmailFromContext(c)
	ctx := c.Request.Context()

	status := c.Query("status")
	var (
		accounts []models.Account
		err      error
	)
	switch status {
	case "":
		accounts, err = h.Accounts.ListByOwner(ctx, owner)
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
		accounts, err = h.Accounts.ListByOwnerAndStatus(ctx, owner, status)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status filter"})
		return
	}
	if err != nil {
		log.Printf("ListAccounts: query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve accounts"})
		return
	}

	c.JSON(http.StatusOK, accounts)
}

type BulkStatusRequest struct {
	IDs    []string `json:"ids" binding:"required,min=1"`
	Status string   `json:"status" binding:"required,oneof=approved rejected pending"`
	Reason string   `json:"reason"`
}

// BulkUpdateStatus applies one status transition to all selected accounts as
// independent concurrent mutations and reports only the aggregate outcome.
// Mutations that commit before another one fails stay committed.
func (h *Handler) BulkUpdateStatus(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reason := strings.TrimSpace(req.Reason)
	if req.Status == models.StatusRejected && reason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A rejection reason is required"})
		return
	}

	owner := middleware.AdminEmailFromContext(c)
	ctx := c.Request.Context()
	now := time.Now().UTC()

	var succeeded atomic.Int64
	var g errgroup.Group
	for _, id := range req.IDs {
		g.Go(func() error {
			if err := h.Accounts.SetStatus(ctx, id, owner, req.Status, reason, now); err != nil {
				return err
			}
			succeeded.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("BulkUpdateStatus: at least one mutation failed: %v", err)
	}

	requested := int64(len(req.IDs))
	done := succeeded.Load()
	c.JSON(http.StatusOK, gin.H{
		"requested": requested,
		"succeeded": done,
		"failed":    requested - done,
	})
}
