package httpserver

import "github.com/gin-gonic/gin"

// SetupRouter mounts the driver directory endpoints.
func SetupRouter(r *gin.Engine, h *DriverHandler) {
	api := r.Group("/api/v1")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	drivers := api.Group("/drivers")
	{
		drivers.GET("", h.ListDrivers)
		drivers.GET("/pending", h.PendingDrivers)
		drivers.POST("", h.CreateDriver)
		drivers.PATCH("/:id/verification", h.UpdateVerification)
		drivers.POST("/refresh", h.RefreshRoster)
	}
}
