package store

import (
	"errors"

	"autodm-gateway/internal/models"

	"gorm.io/gorm"
)

// Store is the gorm-backed credential store and rule repository consumed by
// the webhook engine and the management API. The matching/dispatch hot path
// only reads, so concurrent deliveries need no locking here.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetAccountByInstagramID resolves the account connected to an IG business
// account id. A missing account returns (nil, nil): webhook events for
// unknown accounts are expected background noise, not faults.
func (s *Store) GetAccountByInstagramID(instagramID string) (*models.Account, error) {
	var account models.Account
	err := s.db.Where("instagram_id = ?", instagramID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByOwnerID resolves the account connected by an internal owner.
func (s *Store) GetAccountByOwnerID(ownerID uint) (*models.Account, error) {
	var account models.Account
	err := s.db.Where("owner_id = ?", ownerID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// UpsertAccount creates or refreshes the credential record for an owner. The
// OAuth flow is external; it lands its result here.
func (s *Store) UpsertAccount(ownerID uint, instagramID, username, accessToken string) (*models.Account, error) {
	var account models.Account
	err := s.db.Where("instagram_id = ?", instagramID).First(&account).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		account = models.Account{
			OwnerID:     ownerID,
			InstagramID: instagramID,
			Username:    username,
			AccessToken: accessToken,
		}
		if err := s.db.Create(&account).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		account.OwnerID = ownerID
		account.Username = username
		account.AccessToken = accessToken
		if err := s.db.Save(&account).Error; err != nil {
			return nil, err
		}
	}
	return &account, nil
}

// FindActiveRulesForReel returns the active rules bound to exactly this reel,
// in creation order. The reel filter is a hard requirement: a rule must never
// fire from a comment on a different piece of content.
func (s *Store) FindActiveRulesForReel(accountID uint, reelID string) ([]models.AutomationRule, error) {
	var rules []models.AutomationRule
	err := s.db.Where("account_id = ? AND reel_id = ? AND active = ?", accountID, reelID, true).
		Order("id ASC").
		Find(&rules).Error
	return rules, err
}

func (s *Store) CreateRule(rule *models.AutomationRule) error {
	return s.db.Create(rule).Error
}

func (s *Store) GetRulesByAccount(accountID uint) ([]models.AutomationRule, error) {
	var rules []models.AutomationRule
	err := s.db.Where("account_id = ?", accountID).Order("id ASC").Find(&rules).Error
	return rules, err
}

func (s *Store) UpdateRule(id uint, updates map[string]interface{}) error {
	return s.db.Model(&models.AutomationRule{}).Where("id = ?", id).Updates(updates).Error
}

func (s *Store) DeleteRule(id uint) error {
	return s.db.Delete(&models.AutomationRule{}, id).Error
}

func (s *Store) SetRuleActive(id uint, active bool) error {
	return s.db.Model(&models.AutomationRule{}).Where("id = ?", id).Update("active", active).Error
}

// RecordDispatch appends one dispatch outcome to the automation log.
func (s *Store) RecordDispatch(entry *models.AutomationLog) error {
	return s.db.Create(entry).Error
}

func (s *Store) RecentLogs(limit int) ([]models.AutomationLog, error) {
	var logs []models.AutomationLog
	err := s.db.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
