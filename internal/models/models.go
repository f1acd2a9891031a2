package models

import (
	"time"
)

// Account links an internal owner to a connected Instagram business account.
// The access token is opaque and rotatable; it is empty while the owner has
// not completed the connection flow.
type Account struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     uint      `gorm:"index;not null" json:"owner_id"`
	InstagramID string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"instagram_id"`
	Username    string    `gorm:"type:varchar(255)" json:"username"`
	AccessToken string    `gorm:"type:text" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// AutomationRule maps (account, reel, keyword) to an outgoing DM. A rule only
// ever fires for comments on its own reel; keyword matching is a
// case-insensitive substring check. Creation order (id asc) is the stable
// order used when several rules share a reel.
type AutomationRule struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	AccountID      uint      `gorm:"index;not null" json:"account_id"`
	ReelID         string    `gorm:"type:varchar(50);index;not null" json:"reel_id"`
	ReelThumbnail  string    `gorm:"type:text" json:"reel_thumbnail"`
	TriggerKeyword string    `gorm:"type:varchar(255);not null" json:"trigger_keyword"`
	DMMessage      string    `gorm:"type:text;not null" json:"dm_message"`
	Active         bool      `gorm:"default:true" json:"active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AutomationRule) TableName() string {
	return "automation_rules"
}

// AutomationLog records the outcome of one dispatch attempt.
type AutomationLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RuleID       uint      `json:"rule_id"`
	AccountID    uint      `json:"account_id"`
	CommentID    string    `gorm:"type:varchar(100)" json:"comment_id"`
	CommenterID  string    `gorm:"type:varchar(50)" json:"commenter_id"`
	Category     string    `gorm:"type:varchar(50)" json:"category"` // empty on success
	Success      bool      `json:"success"`
	ErrorMessage string    `gorm:"type:text" json:"error_message"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AutomationLog) TableName() string {
	return "automation_logs"
}
