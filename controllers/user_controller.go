package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pizzeria-service/middlewares"
	"pizzeria-service/models"
	"pizzeria-service/utils"
)

// GetUser answers null when the phone has no profile yet.
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.store.GetUser(c.Request.Context(), c.Param("phone"))
	if err != nil {
		storeError(c, "get user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) SaveUser(c *gin.Context) {
	defer middlewares.RecordOperation(c, "save_user")

	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user.Phone, user.Name = strings.TrimSpace(user.Phone), strings.TrimSpace(user.Name)
	if user.Phone == "" || user.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and phone are required"})
		return
	}
	if user.Level == "" {
		user.Level = models.LevelBronze
	}
	if !user.Level.Valid() || user.Points < 0 || user.OrdersCount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid loyalty fields"})
		return
	}
	if err := h.store.SaveUser(c.Request.Context(), user); err != nil {
		storeError(c, "save user", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	defer middlewares.RecordOperation(c, "admin_login")

	var request struct {
		PIN string `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.CheckPIN(h.opts.PINHash, request.PIN) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong PIN"})
		return
	}
	token, err := utils.IssueOperatorToken(h.opts.JWTSecret, h.opts.TokenTTL, h.now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
