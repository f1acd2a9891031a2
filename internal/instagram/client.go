package instagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Error categories for failed Graph API calls, mapped from Meta error codes.
const (
	CategoryInvalidParameter     = "invalid_parameter"
	CategoryPermissionDenied     = "permission_denied"
	CategoryRecipientUnreachable = "recipient_unreachable"
	CategoryUnknown              = "unknown"
)

// Client talks to the Meta Graph API for Instagram messaging. The base URL is
// configurable so tests can point it at a local server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a typed Graph API failure, parsed from the standard error
// envelope `{"error": {"message", "code", "error_subcode", ...}}`.
type APIError struct {
	StatusCode int
	Code       int
	Subcode    int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph api error: status=%d code=%d subcode=%d: %s",
		e.StatusCode, e.Code, e.Subcode, e.Message)
}

// Category buckets the error for logging. Code 100 is an invalid parameter
// (bad recipient id), 10 a missing instagram_manage_messages permission, 2022
// a recipient outside the messaging window or with filtered DMs.
func (e *APIError) Category() string {
	switch e.Code {
	case 100:
		return CategoryInvalidParameter
	case 10:
		return CategoryPermissionDenied
	case 2022:
		return CategoryRecipientUnreachable
	default:
		return CategoryUnknown
	}
}

// Categorize maps any dispatch failure to a log category. Transport faults
// (timeouts, connection errors) have no Graph error code and fall through to
// unknown.
func Categorize(err error) string {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Category()
	}
	return CategoryUnknown
}

type sendMessageRequest struct {
	Recipient struct {
		ID string `json:"id"`
	} `json:"recipient"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
}

// SendDM sends one private message from the business account to a commenter.
// The token travels as a query parameter, matching the Graph messaging API.
func (c *Client) SendDM(accessToken, senderID, recipientID, text string) error {
	var body sendMessageRequest
	body.Recipient.ID = recipientID
	body.Message.Text = text

	_, err := c.post(fmt.Sprintf("%s/%s/messages", c.BaseURL, senderID), accessToken, body)
	return err
}

// ReplyToComment posts a public reply under a comment. Present for parity
// with the Graph API surface; the automation engine does not call it.
func (c *Client) ReplyToComment(accessToken, commentID, text string) error {
	_, err := c.post(fmt.Sprintf("%s/%s/replies", c.BaseURL, commentID),
		accessToken, map[string]string{"message": text})
	return err
}

// MediaItem is one reel/post of a business account, as listed for the
// rule-builder UI.
type MediaItem struct {
	ID           string `json:"id"`
	Caption      string `json:"caption"`
	MediaType    string `json:"media_type"`
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Permalink    string `json:"permalink"`
}

// ListMedia fetches the account's media so the owner can pick a reel to
// attach a rule to.
func (c *Client) ListMedia(accessToken, igUserID string) ([]MediaItem, error) {
	endpoint := fmt.Sprintf("%s/%s/media?fields=%s&access_token=%s",
		c.BaseURL, igUserID,
		url.QueryEscape("id,caption,media_type,media_url,thumbnail_url,permalink"),
		url.QueryEscape(accessToken))

	resp, err := c.HTTPClient.Get(endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, parseAPIError(resp.StatusCode, respBody)
	}

	var result struct {
		Data []MediaItem `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

func (c *Client) post(endpoint, accessToken string, body interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, endpoint+"?access_token="+url.QueryEscape(accessToken),
		bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return respBody, parseAPIError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

func parseAPIError(status int, body []byte) *APIError {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
			Subcode int    `json:"error_subcode"`
		} `json:"error"`
	}
	// A body that is not the standard envelope still yields a usable error
	// with code 0 (category unknown).
	_ = json.Unmarshal(body, &envelope)

	return &APIError{
		StatusCode: status,
		Code:       envelope.Error.Code,
		Subcode:    envelope.Error.Subcode,
		Message:    envelope.Error.Message,
	}
}
