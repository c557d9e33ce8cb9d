package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sgvr/sgvr/internal/documents"
	log "github.com/sirupsen/logrus"
)

// ProvisionHandler exposes the one-shot provisioning pass over HTTP.
type ProvisionHandler struct {
	provisioner *documents.Provisioner
}

// NewProvisionHandler constructs a ProvisionHandler.
func NewProvisionHandler(provisioner *documents.Provisioner) *ProvisionHandler {
	return &ProvisionHandler{provisioner: provisioner}
}

// Run executes the provisioning steps and reports each outcome. The pass is
// idempotent; re-running performs only the remaining work. A failing step
// halts the rest and surfaces as a 500 with the steps executed so far.
func (h *ProvisionHandler) Run(c *gin.Context) {
	steps, errRun := h.provisioner.Run(c.Request.Context())
	if errRun != nil {
		log.WithError(errRun).Error("provisioning failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "provisioning failed",
			"steps":   steps,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "steps": steps})
}
