package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"listing-marketplace/internal/auth"
	listinghandler "listing-marketplace/services/listing/handler"
	uploadhandler "listing-marketplace/services/upload/handler"
	"listing-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies groups everything the router wires into handlers
type Dependencies struct {
	Listings listinghandler.ListingServiceInterface
	Uploads  uploadhandler.UploadRelayInterface
	Files    uploadhandler.FileStore // nil unless images are self-hosted
	Verifier auth.Verifier
	Store    Pinger
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.CustomRecovery(recoverJSON)) // recover from panics
	router.Use(RequestLoggerMiddleware)         // custom request logging

	listingHandler := listinghandler.NewListingHandler(deps.Listings)
	uploadHandler := uploadhandler.NewUploadHandler(deps.Uploads, deps.Files)
	requireIdentity := RequireIdentity(deps.Verifier)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ready", readyHandler(deps.Store))

	api := router.Group("/api")

	listing := api.Group("/listing")
	{
		listing.GET("/get/:id", listingHandler.GetListingHandler)
		listing.GET("/get", listingHandler.SearchListingsHandler)
		listing.POST("/create", requireIdentity, listingHandler.CreateListingHandler)
		listing.DELETE("/delete/:id", requireIdentity, listingHandler.DeleteListingHandler)
		listing.PUT("/update/:id", requireIdentity, listingHandler.UpdateListingHandler)
		listing.POST("/update/:id", requireIdentity, listingHandler.UpdateListingHandler)
	}

	user := api.Group("/user")
	{
		user.GET("/listings/:id", requireIdentity, listingHandler.GetUserListingsHandler)
	}

	upload := api.Group("/upload")
	{
		upload.POST("/single", uploadHandler.SingleUploadHandler)
		upload.POST("/multiple", uploadHandler.MultipleUploadHandler)
		upload.GET("/file/:id", uploadHandler.ServeFileHandler)
	}

	router.NoRoute(func(c *gin.Context) {
		utils.JSONError(c, http.StatusNotFound, "Route not found")
	})

	return router
}

// recoverJSON answers a recovered panic with the usual error body
func recoverJSON(c *gin.Context, recovered any) {
	utils.Error("panic recovered", map[string]any{
		"path":  c.Request.URL.Path,
		"panic": fmt.Sprint(recovered),
	})
	utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error")
}

func readyHandler(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			utils.Warn("readiness check failed", map[string]any{"error": err.Error()})
			utils.JSONError(c, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
