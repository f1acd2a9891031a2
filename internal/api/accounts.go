package api

import (
	"net/http"
	"strconv"

	"autodm-gateway/internal/instagram"
	"autodm-gateway/internal/store"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	Store  *store.Store
	Client *instagram.Client
}

func NewAccountHandler(st *store.Store, client *instagram.Client) *AccountHandler {
	return &AccountHandler{Store: st, Client: client}
}

// SaveCredentials stores the result of the external OAuth flow: the IG
// business account id plus its long-lived access token.
func (h *AccountHandler) SaveCredentials(c *gin.Context) {
	var req struct {
		OwnerID     uint   `json:"owner_id" binding:"required"`
		InstagramID string `json:"instagram_id" binding:"required"`
		Username    string `json:"username"`
		AccessToken string `json:"access_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.Store.UpsertAccount(req.OwnerID, req.InstagramID, req.Username, req.AccessToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, account)
}

// GetMedia lists the connected account's reels/posts so the owner can attach
// a rule to one of them.
func (h *AccountHandler) GetMedia(c *gin.Context) {
	ownerID, err := strconv.ParseUint(c.Query("owner_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid owner_id"})
		return
	}

	account, err := h.Store.GetAccountByOwnerID(uint(ownerID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if account == nil || account.AccessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Instagram not connected"})
		return
	}

	media, err := h.Client.ListMedia(account.AccessToken, account.InstagramID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch media"})
		return
	}

	c.JSON(http.StatusOK, media)
}
