package webhook

import (
	pkgmodels "autodm-gateway/pkg/models"
)

// Sentinel values for sub-fields the provider occasionally omits. Malformed
// fragments are normalized instead of aborting the sibling entries/changes.
const (
	UnknownMedia = "UNKNOWN_MEDIA"
	UnknownUser  = "UNKNOWN_USER"
)

// ExtractCommentEvents flattens a webhook delivery into comment events, one
// per change with field "comments". Changes for other fields are skipped.
// Pure: no lookups, no side effects.
func ExtractCommentEvents(payload *pkgmodels.WebhookPayload) []pkgmodels.CommentEvent {
	var events []pkgmodels.CommentEvent
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "comments" {
				continue
			}

			event := pkgmodels.CommentEvent{
				AccountID:   entry.ID,
				ContentID:   UnknownMedia,
				CommenterID: UnknownUser,
				Text:        change.Value.Text,
				CommentID:   change.Value.ID,
			}
			if change.Value.Media != nil && change.Value.Media.ID != "" {
				event.ContentID = change.Value.Media.ID
			}
			if change.Value.From != nil && change.Value.From.ID != "" {
				event.CommenterID = change.Value.From.ID
			}
			events = append(events, event)
		}
	}
	return events
}
