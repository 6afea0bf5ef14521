package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/mirado/clinic-console-api/internal/middleware"
	"github.com/mirado/clinic-console-api/internal/models"
)

// GetStats computes the dashboard counters for the calling admin. The four
// counts are independent queries with no shared snapshot; under concurrent
// writes they may reflect slightly different instants, which is fine for a
// display widget.
func (h *Handler) GetStats(c *gin.Context) {
	owner := middleware.AdminEmailFromContext(c)

	var totalAccounts, pendingAccounts, rejectedAccounts, totalDocuments int64
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		totalAccounts, err = h.Accounts.CountByOwner(ctx, owner)
		return err
	})
	g.Go(func() error {
		var err error
		pendingAccounts, err = h.Accounts.CountByOwnerAndStatus(ctx, owner, models.StatusPending)
		return err
	})
	g.Go(func() error {
		var err error
		rejectedAccounts, err = h.Accounts.CountByOwnerAndStatus(ctx, owner, models.StatusRejected)
		return err
	})
	g.Go(func() error {
		var err error
		totalDocuments, err = h.Documents.CountByOwner(ctx, owner)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Printf("GetStats: count failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalAccounts":    totalAccounts,
		"pendingAccounts":  pendingAccounts,
		"rejectedAccounts": rejectedAccounts,
		"totalDocuments":   totalDocuments,
	})
}

// GetQuote returns the dashboard's motivational quote. Never fails; the
// quote service substitutes a local fallback on any error.
func (h *Handler) GetQuote(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"quote": h.Quotes.Random(c.Request.Context())})
}
