package webhook

import (
	"encoding/json"
	"testing"

	pkgmodels "autodm-gateway/pkg/models"

	"github.com/stretchr/testify/require"
)

func TestExtractCommentEvents(t *testing.T) {
	raw := `{
		"object": "instagram",
		"entry": [
			{
				"id": "17841400000001",
				"changes": [
					{
						"field": "comments",
						"value": {
							"id": "c-1",
							"text": "love this reel",
							"from": {"id": "u-9", "username": "fan"},
							"media": {"id": "m-5", "media_product_type": "REELS"}
						}
					},
					{
						"field": "mentions",
						"value": {"id": "x-1", "text": "ignored"}
					}
				]
			},
			{
				"id": "17841400000002",
				"changes": [
					{
						"field": "comments",
						"value": {"id": "c-2", "text": "bare comment"}
					}
				]
			}
		]
	}`

	var payload pkgmodels.WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	events := ExtractCommentEvents(&payload)
	require.Len(t, events, 2)

	require.Equal(t, pkgmodels.CommentEvent{
		AccountID:   "17841400000001",
		ContentID:   "m-5",
		CommenterID: "u-9",
		Text:        "love this reel",
		CommentID:   "c-1",
	}, events[0])

	// Missing media/from collapse to sentinels instead of aborting.
	require.Equal(t, UnknownMedia, events[1].ContentID)
	require.Equal(t, UnknownUser, events[1].CommenterID)
	require.Equal(t, "bare comment", events[1].Text)
}

func TestExtractCommentEventsSkipsOtherFields(t *testing.T) {
	payload := &pkgmodels.WebhookPayload{
		Object: "instagram",
		Entry: []pkgmodels.Entry{
			{
				ID: "acct",
				Changes: []pkgmodels.Change{
					{Field: "story_insights", Value: pkgmodels.ChangeValue{ID: "s-1"}},
					{Field: "live_comments", Value: pkgmodels.ChangeValue{ID: "l-1"}},
				},
			},
		},
	}

	require.Empty(t, ExtractCommentEvents(payload))
}

func TestExtractCommentEventsEmptyDelivery(t *testing.T) {
	require.Empty(t, ExtractCommentEvents(&pkgmodels.WebhookPayload{Object: "instagram"}))
}
