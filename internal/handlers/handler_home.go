package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// home godoc
// @Summary Service banner
// @Description Returns a short banner identifying the service.
// @Tags home
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func home(c *gin.Context) {
	c.String(http.StatusOK, "payment reconciliation backend")
}
