package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mirado/clinic-console-api/internal/middleware"
	"github.com/mirado/clinic-console-api/internal/models"
	"github.com/mirado/clinic-console-api/internal/services"
	"github.com/mirado/clinic-console-api/internal/store"
)

// PortalLogin admits an end user by bare email. The email is the whole
// session token: the portal caches it in tab storage and replays it in the
// X-Portal-Email header. Deliberately low-security for this use case.
func (h *Handler) PortalLogin(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email address is required"})
		return
	}

	acc, err := h.Accounts.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No account found for this email"})
			return
		}
		log.Printf("PortalLogin: lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	if acc.Status != models.StatusApproved {
		// The denial names the actual status so the user knows where they stand.
		c.JSON(http.StatusForbidden, gin.H{
			"error": fmt.Sprintf("Access denied: your account status is %s", acc.Status),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"email": acc.Email, "account": acc})
}

// PortalProfile returns the signed-in portal user's account, images included.
func (h *Handler) PortalProfile(c *gin.Context) {
	acc, ok := middleware.PortalAccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Portal session required"})
		return
	}
	c.JSON(http.StatusOK, acc)
}

// PortalDocuments lists the documents whose assignment snapshot contains the
// portal user's email, regardless of which admin created them.
func (h *Handler) PortalDocuments(c *gin.Context) {
	acc, ok := middleware.PortalAccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Portal session required"})
		return
	}

	docs, err := h.Documents.ListByAssignedEmail(c.Request.Context(), acc.Email)
	if err != nil {
		log.Printf("PortalDocuments: query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve documents"})
		return
	}
	c.JSON(http.StatusOK, docs)
}

// UploadImage stores a profile image on the external host and records the
// ref on the account. All validation happens before any network call. With
// form field "replace" set to a stored image id, the old ref is pulled and
// the new one pushed as two sequential writes; a crash between them leaves
// the account one image short.
func (h *Handler) UploadImage(c *gin.Context) {
	acc, ok := middleware.PortalAccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Portal session required"})
		return
	}

	// Cap the request body above the image ceiling so an oversized file is
	// still parsed far enough to get the explicit size rejection below.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*services.MaxImageBytes)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An image file is required"})
		return
	}
	if fileHeader.Size > services.MaxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds the 5 MB limit"})
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files can be uploaded"})
		return
	}

	var oldRef models.ImageRef
	replacing := false
	if replaceID := c.PostForm("replace"); replaceID != "" {
		for _, img := range acc.Images {
			if img.ImageID == replaceID {
				oldRef = img
				replacing = true
				break
			}
		}
		if !replacing {
			c.JSON(http.StatusNotFound, gin.H{"error": "No stored image matches the replace id"})
			return
		}
	} else if len(acc.Images) >= models.MaxAccountImages {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Image limit reached (%d)", models.MaxAccountImages),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read image file"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read image file"})
		return
	}

	ctx := c.Request.Context()
	ref, err := h.Images.Upload(ctx, fileHeader.Filename, data)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if replacing {
		if err := h.Accounts.PullImage(ctx, acc.ID.Hex(), oldRef); err != nil {
			log.Printf("UploadImage: failed to pull replaced image: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace image"})
			return
		}
	}
	if err := h.Accounts.PushImage(ctx, acc.ID.Hex(), ref); err != nil {
		log.Printf("UploadImage: failed to push image ref: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"image": ref})
}

// DeleteImage removes an image ref from the account by full field match.
// The hosted binary is left in place: the host's free tier has no delete
// API, so the file persists until host-side expiry.
func (h *Handler) DeleteImage(c *gin.Context) {
	acc, ok := middleware.PortalAccountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Portal session required"})
		return
	}

	var ref models.ImageRef
	if err := c.ShouldBindJSON(&ref); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image payload"})
		return
	}

	if err := h.Accounts.PullImage(c.Request.Context(), acc.ID.Hex(), ref); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			return
		}
		log.Printf("DeleteImage: pull failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image removed"})
}
