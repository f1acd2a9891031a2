package models

// WebhookPayload represents the incoming JSON payload from the Instagram
// Graph webhook. One delivery may carry several entries, each scoped to one
// business account, each with several field changes.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry is one routing-account-scoped unit within a delivery.
type Entry struct {
	ID      string   `json:"id"` // IG business account id
	Time    int64    `json:"time"`
	Changes []Change `json:"changes"`
}

// Change is one field-scoped event unit within an entry. Only the
// "comments" field is interpreted; other fields are skipped upstream.
type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue is the field-specific payload of a "comments" change.
type ChangeValue struct {
	ID    string        `json:"id"`
	Text  string        `json:"text"`
	From  *CommentActor `json:"from,omitempty"`
	Media *CommentMedia `json:"media,omitempty"`
}

// CommentActor identifies the Instagram user who wrote the comment.
type CommentActor struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

// CommentMedia identifies the media item (reel/post) the comment was made on.
type CommentMedia struct {
	ID               string `json:"id"`
	MediaProductType string `json:"media_product_type,omitempty"`
}

// CommentEvent is the normalized form of one "comments" change. It is
// transient: produced by the normalizer, consumed once by the engine, never
// persisted.
type CommentEvent struct {
	AccountID   string `json:"account_id"` // routing key (entry.id)
	ContentID   string `json:"content_id"` // media id the comment belongs to
	CommenterID string `json:"commenter_id"`
	Text        string `json:"text"`
	CommentID   string `json:"comment_id"` // provider comment id
}
