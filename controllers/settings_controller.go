package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"pizzeria-service/middlewares"
	"pizzeria-service/models"
)

func (h *Handler) ListSettings(c *gin.Context) {
	settings, err := h.store.ListSettings(c.Request.Context())
	if err != nil {
		storeError(c, "list settings", err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) SaveSetting(c *gin.Context) {
	defer middlewares.RecordOperation(c, "save_setting")

	var setting models.Setting
	if err := c.ShouldBindJSON(&setting); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if setting.Key == models.SettingBroadcastGraphics {
		var g models.BroadcastGraphics
		if err := json.Unmarshal([]byte(setting.Value), &g); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "broadcast_graphics must be a JSON object: " + err.Error()})
			return
		}
	}
	if err := h.store.SaveSetting(c.Request.Context(), setting.Key, setting.Value); err != nil {
		storeError(c, "save setting", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
