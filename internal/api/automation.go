package api

import (
	"net/http"
	"strconv"

	"autodm-gateway/internal/models"
	"autodm-gateway/internal/store"

	"github.com/gin-gonic/gin"
)

type AutomationHandler struct {
	Store *store.Store
}

func NewAutomationHandler(st *store.Store) *AutomationHandler {
	return &AutomationHandler{Store: st}
}

// GetRules returns an account's automation rules in creation order.
func (h *AutomationHandler) GetRules(c *gin.Context) {
	accountID, err := strconv.ParseUint(c.Query("account_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account_id"})
		return
	}

	rules, err := h.Store.GetRulesByAccount(uint(accountID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rules)
}

// CreateRule registers a (reel, keyword, message) rule for an account.
func (h *AutomationHandler) CreateRule(c *gin.Context) {
	var req struct {
		AccountID      uint   `json:"account_id" binding:"required"`
		ReelID         string `json:"reel_id" binding:"required"`
		ReelThumbnail  string `json:"reel_thumbnail"`
		TriggerKeyword string `json:"trigger_keyword" binding:"required"`
		DMMessage      string `json:"dm_message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule := models.AutomationRule{
		AccountID:      req.AccountID,
		ReelID:         req.ReelID,
		ReelThumbnail:  req.ReelThumbnail,
		TriggerKeyword: req.TriggerKeyword,
		DMMessage:      req.DMMessage,
		Active:         true,
	}

	if err := h.Store.CreateRule(&rule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, rule)
}

// UpdateRule edits the keyword/message/thumbnail of an existing rule. The
// matching engine never mutates rules; this is the only write path.
func (h *AutomationHandler) UpdateRule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	var req struct {
		ReelID         string `json:"reel_id"`
		ReelThumbnail  string `json:"reel_thumbnail"`
		TriggerKeyword string `json:"trigger_keyword"`
		DMMessage      string `json:"dm_message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.ReelID != "" {
		updates["reel_id"] = req.ReelID
	}
	if req.ReelThumbnail != "" {
		updates["reel_thumbnail"] = req.ReelThumbnail
	}
	if req.TriggerKeyword != "" {
		updates["trigger_keyword"] = req.TriggerKeyword
	}
	if req.DMMessage != "" {
		updates["dm_message"] = req.DMMessage
	}

	if err := h.Store.UpdateRule(uint(id), updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rule updated successfully"})
}

// DeleteRule removes a rule.
func (h *AutomationHandler) DeleteRule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	if err := h.Store.DeleteRule(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rule deleted successfully"})
}

// ToggleRule switches a rule active/inactive.
func (h *AutomationHandler) ToggleRule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.SetRuleActive(uint(id), *req.Active); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rule toggled successfully"})
}

// GetLogs returns recent dispatch outcomes.
func (h *AutomationHandler) GetLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.Store.RecentLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}
