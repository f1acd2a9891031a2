package store

import (
	"testing"

	"autodm-gateway/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Account{}, &models.AutomationRule{}, &models.AutomationLog{}))
	return New(db), db
}

func TestGetAccountByInstagramID(t *testing.T) {
	st, db := setupStore(t)
	require.NoError(t, db.Create(&models.Account{OwnerID: 1, InstagramID: "ig-1", AccessToken: "tok"}).Error)

	account, err := st.GetAccountByInstagramID("ig-1")
	require.NoError(t, err)
	require.NotNil(t, account)
	require.Equal(t, "tok", account.AccessToken)

	// Absence is not an error.
	account, err = st.GetAccountByInstagramID("ig-404")
	require.NoError(t, err)
	require.Nil(t, account)
}

func TestUpsertAccount(t *testing.T) {
	st, _ := setupStore(t)

	created, err := st.UpsertAccount(1, "ig-1", "creator", "tok-a")
	require.NoError(t, err)

	// Token refresh keeps the same record.
	updated, err := st.UpsertAccount(1, "ig-1", "creator", "tok-b")
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "tok-b", updated.AccessToken)
}

func TestFindActiveRulesForReel(t *testing.T) {
	st, db := setupStore(t)
	account := models.Account{OwnerID: 1, InstagramID: "ig-1"}
	require.NoError(t, db.Create(&account).Error)

	rules := []models.AutomationRule{
		{AccountID: account.ID, ReelID: "reel-1", TriggerKeyword: "a", DMMessage: "m1", Active: true},
		{AccountID: account.ID, ReelID: "reel-1", TriggerKeyword: "b", DMMessage: "m2", Active: true},
		{AccountID: account.ID, ReelID: "reel-1", TriggerKeyword: "c", DMMessage: "m3", Active: false},
		{AccountID: account.ID, ReelID: "reel-2", TriggerKeyword: "a", DMMessage: "m4", Active: true},
	}
	for i := range rules {
		require.NoError(t, db.Create(&rules[i]).Error)
	}

	got, err := st.FindActiveRulesForReel(account.ID, "reel-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Creation order is the stable match order.
	require.Equal(t, "a", got[0].TriggerKeyword)
	require.Equal(t, "b", got[1].TriggerKeyword)
}

func TestSetRuleActiveAndDelete(t *testing.T) {
	st, db := setupStore(t)
	rule := models.AutomationRule{AccountID: 1, ReelID: "reel-1", TriggerKeyword: "a", DMMessage: "m", Active: true}
	require.NoError(t, db.Create(&rule).Error)

	require.NoError(t, st.SetRuleActive(rule.ID, false))
	got, err := st.FindActiveRulesForReel(1, "reel-1")
	require.NoError(t, err)
	require.Empty(t, got)

	require.NoError(t, st.DeleteRule(rule.ID))
	all, err := st.GetRulesByAccount(1)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestRecordDispatchAndRecentLogs(t *testing.T) {
	st, _ := setupStore(t)

	require.NoError(t, st.RecordDispatch(&models.AutomationLog{RuleID: 1, Success: true, CommentID: "c-1"}))
	require.NoError(t, st.RecordDispatch(&models.AutomationLog{RuleID: 2, Success: false, Category: "permission_denied", CommentID: "c-2"}))

	logs, err := st.RecentLogs(10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
}
