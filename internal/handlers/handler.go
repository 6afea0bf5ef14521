package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mirado/clinic-console-api/internal/middleware"
	"github.com/mirado/clinic-console-api/internal/services"
	"github.com/mirado/clinic-console-api/internal/store"
)

// Handler carries the stores and external services the route handlers use.
type Handler struct {
	Accounts  store.AccountStore
	Documents store.DocumentStore
	Clinics   store.ClinicStore
	Admins    store.AdminStore
	Images    *services.ImageHostService
	Quotes    *services.QuoteService
}

func NewHandler(accounts store.AccountStore, documents store.DocumentStore, clinics store.ClinicStore, admins store.AdminStore, images *services.ImageHostService, quotes *services.QuoteService) *Handler {
	return &Handler{
		Accounts:  accounts,
		Documents: documents,
		Clinics:   clinics,
		Admins:    admins,
		Images:    images,
		Quotes:    quotes,
	}
}

// RegisterRoutes attaches all console and portal routes. Shared between main
// and the handler tests so both exercise the same routing and middleware.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterAdmin)
		authRoutes.POST("/login", h.Login)
	}

	apiRoutes := r.Group("/api")
	apiRoutes.Use(middleware.AuthMiddleware()) // Protect all /api routes
	{
		apiRoutes.GET("/accounts", h.ListAccounts)
		apiRoutes.POST("/accounts", h.CreateAccount)
		apiRoutes.POST("/accounts/status", h.BulkUpdateStatus)

		apiRoutes.GET("/documents", h.ListDocuments)
		apiRoutes.POST("/documents", h.CreateDocument)
		apiRoutes.DELETE("/documents/:id", h.DeleteDocument)
		apiRoutes.GET("/documents/:id/export", h.ExportDocument)

		apiRoutes.GET("/clinics", h.ListClinics)
		apiRoutes.POST("/clinics", h.CreateClinic)
		apiRoutes.GET("/clinics/:id", h.GetClinic)
		apiRoutes.PUT("/clinics/:id", h.UpdateClinic)
		apiRoutes.DELETE("/clinics/:id", h.DeleteClinic)

		apiRoutes.GET("/stats", h.GetStats)
		apiRoutes.GET("/quote", h.GetQuote)
	}

	portal := r.Group("/portal")
	portal.POST("/login", h.PortalLogin)

	portalAuthed := portal.Group("")
	portalAuthed.Use(middleware.PortalAuth(h.Accounts))
	{
		portalAuthed.GET("/profile", h.PortalProfile)
		portalAuthed.GET("/documents", h.PortalDocuments)
		portalAuthed.POST("/images", h.UploadImage)
		portalAuthed.DELETE("/images", h.DeleteImage)
	}
}
