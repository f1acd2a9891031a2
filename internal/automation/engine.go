package automation

import (
	"strings"

	"autodm-gateway/internal/models"
	pkgmodels "autodm-gateway/pkg/models"

	"go.uber.org/zap"
)

// RuleStore is the read side of the rule repository and credential store the
// engine consumes.
type RuleStore interface {
	GetAccountByInstagramID(instagramID string) (*models.Account, error)
	FindActiveRulesForReel(accountID uint, reelID string) ([]models.AutomationRule, error)
}

// Engine resolves a comment event to at most one automation rule and hands
// the match to the dispatcher.
type Engine struct {
	store      RuleStore
	dispatcher *Dispatcher
	dedup      *DedupCache
	logger     *zap.Logger
}

func NewEngine(store RuleStore, dispatcher *Dispatcher, dedup *DedupCache, logger *zap.Logger) *Engine {
	return &Engine{store: store, dispatcher: dispatcher, dedup: dedup, logger: logger}
}

// ProcessCommentEvent runs the full match-and-dispatch pass for one event.
// "No match" outcomes are the common case and return nil; only infrastructure
// faults (store errors) surface as errors, and even those are swallowed by
// the webhook handler after logging.
func (e *Engine) ProcessCommentEvent(event pkgmodels.CommentEvent) error {
	account, err := e.store.GetAccountByInstagramID(event.AccountID)
	if err != nil {
		return err
	}
	if account == nil {
		// Events for accounts that never connected are background noise.
		e.logger.Info("unknown account, dropping event",
			zap.String("instagram_id", event.AccountID),
			zap.String("comment_id", event.CommentID))
		return nil
	}

	// The business account commenting on its own media must not trigger its
	// own automations.
	if event.CommenterID == account.InstagramID {
		e.logger.Debug("comment from business account itself, ignoring",
			zap.String("comment_id", event.CommentID))
		return nil
	}

	if e.dedup != nil && e.dedup.Seen(event.CommentID) {
		e.logger.Info("duplicate comment delivery, dropping",
			zap.String("comment_id", event.CommentID))
		return nil
	}

	rules, err := e.store.FindActiveRulesForReel(account.ID, event.ContentID)
	if err != nil {
		return err
	}

	rule := matchRule(rules, event.Text)
	if rule == nil {
		e.logger.Debug("no matching rule",
			zap.String("reel_id", event.ContentID),
			zap.Int("candidates", len(rules)))
		return nil
	}

	e.logger.Info("rule matched",
		zap.Uint("rule_id", rule.ID),
		zap.String("keyword", rule.TriggerKeyword),
		zap.String("reel_id", rule.ReelID))

	// Terminal either way: the dispatcher has already logged and recorded
	// the outcome, and failed sends are never retried.
	_ = e.dispatcher.Dispatch(account, rule, event)
	return nil
}

// matchRule picks the first rule (creation order) whose trigger keyword
// appears in the comment text, case-insensitively. Substring containment, not
// whole-word: a short keyword embedded in a longer comment still matches.
func matchRule(rules []models.AutomationRule, commentText string) *models.AutomationRule {
	text := strings.ToUpper(commentText)
	for i := range rules {
		keyword := strings.ToUpper(rules[i].TriggerKeyword)
		if keyword != "" && strings.Contains(text, keyword) {
			return &rules[i]
		}
	}
	return nil
}
