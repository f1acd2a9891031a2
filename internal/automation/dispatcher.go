package automation

import (
	"autodm-gateway/internal/instagram"
	"autodm-gateway/internal/models"
	pkgmodels "autodm-gateway/pkg/models"

	"go.uber.org/zap"
)

// Sender is the outbound messaging surface of the Graph client. Tests swap in
// a fake to observe dispatches without a network.
type Sender interface {
	SendDM(accessToken, senderID, recipientID, text string) error
}

// Dispatcher issues exactly one send attempt per matched event and records
// the outcome. Failures are terminal: messaging windows are time-sensitive,
// so a stale retry is worse than silence.
type Dispatcher struct {
	sender Sender
	store  LogStore
	logger *zap.Logger
}

// LogStore persists dispatch outcomes.
type LogStore interface {
	RecordDispatch(entry *models.AutomationLog) error
}

func NewDispatcher(sender Sender, store LogStore, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, store: store, logger: logger}
}

// Dispatch sends the rule's DM to the commenter and logs the result. The
// returned error is informational; callers must not retry.
func (d *Dispatcher) Dispatch(account *models.Account, rule *models.AutomationRule, event pkgmodels.CommentEvent) error {
	err := d.sender.SendDM(account.AccessToken, account.InstagramID, event.CommenterID, rule.DMMessage)

	entry := &models.AutomationLog{
		RuleID:      rule.ID,
		AccountID:   account.ID,
		CommentID:   event.CommentID,
		CommenterID: event.CommenterID,
		Success:     err == nil,
	}

	if err != nil {
		entry.Category = instagram.Categorize(err)
		entry.ErrorMessage = err.Error()
		d.logger.Warn("dm dispatch failed",
			zap.Uint("rule_id", rule.ID),
			zap.String("commenter_id", event.CommenterID),
			zap.String("category", entry.Category),
			zap.Error(err))
	} else {
		d.logger.Info("dm sent",
			zap.Uint("rule_id", rule.ID),
			zap.String("commenter_id", event.CommenterID),
			zap.String("reel_id", rule.ReelID))
	}

	if logErr := d.store.RecordDispatch(entry); logErr != nil {
		d.logger.Error("failed to record dispatch outcome", zap.Error(logErr))
	}

	return err
}
