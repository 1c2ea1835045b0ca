// Package assist talks to the sibling AI services that back consultancy
// chats and special-consideration triage.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/workmood/workmood-backend/database"
)

// Validity is the three-way outcome of classifying an inbound chat message.
// Unknown means the classifier itself failed; callers treat it as a
// completion failure, not as invalid input.
type Validity int

const (
	ValidityUnknown Validity = iota
	ValidityValid
	ValidityInvalid
)

// Turn is one role/content entry in a rendered conversation
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Service is the assistant contract the services are written against. The
// HTTP client below is the production implementation; tests substitute a
// scripted fake.
type Service interface {
	ValidateMessage(ctx context.Context, message string) Validity
	GenerateReply(ctx context.Context, turns []Turn) (string, error)
	SummarizeProfile(ctx context.Context, profile map[string]interface{}) (string, error)
	Recommend(ctx context.Context, bioSummary string, engagementSummary string) (string, error)
	Inquire(ctx context.Context, orgKey string, subjectID string, message string) (string, error)
}

// Client calls the assistant sibling service over HTTP. Requests share one
// bounded timeout; a timeout counts as a failure and is never retried.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client against ASSIST_URL
func NewClient() *Client {
	return &Client{
		baseURL: database.GetEnvDefault("ASSIST_URL", "http://localhost:8100"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// post sends a JSON body and decodes a JSON reply into out
func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("assist service returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ValidateMessage classifies an inbound message against the assistant's
// domain. Any transport or classifier failure maps to ValidityUnknown.
func (c *Client) ValidateMessage(ctx context.Context, message string) Validity {
	var reply struct {
		Valid bool `json:"valid"`
	}
	if err := c.post(ctx, "/v1/chat/validate", map[string]interface{}{"message": message}, &reply); err != nil {
		return ValidityUnknown
	}
	if reply.Valid {
		return ValidityValid
	}
	return ValidityInvalid
}

// GenerateReply completes the conversation with the next assistant turn
func (c *Client) GenerateReply(ctx context.Context, turns []Turn) (string, error) {
	var reply struct {
		Content string `json:"content"`
	}
	if err := c.post(ctx, "/v1/chat/completion", map[string]interface{}{"conversation": turns}, &reply); err != nil {
		return "", err
	}
	return reply.Content, nil
}

// SummarizeProfile condenses a subject profile into a short bio summary
func (c *Client) SummarizeProfile(ctx context.Context, profile map[string]interface{}) (string, error) {
	var reply struct {
		Summary string `json:"summary"`
	}
	if err := c.post(ctx, "/v1/profile/summarize", map[string]interface{}{"profile": profile}, &reply); err != nil {
		return "", err
	}
	return reply.Summary, nil
}

// Recommend turns a bio summary and an engagement summary into a
// consultation recommendation
func (c *Client) Recommend(ctx context.Context, bioSummary string, engagementSummary string) (string, error) {
	var reply struct {
		Recommendation string `json:"recommendation"`
	}
	body := map[string]interface{}{
		"bioDataProfile":           bioSummary,
		"emotionEngagementProfile": engagementSummary,
	}
	if err := c.post(ctx, "/v1/profile/recommend", body, &reply); err != nil {
		return "", err
	}
	return reply.Recommendation, nil
}

// InitConsultancy asks for the opening assistant message of a fresh session.
// Session opening inside this service goes through GenerateReply with a
// rendered profile prompt; this covers the sibling endpoint for callers that
// want the dedicated route, so it stays off the Service interface.
func (c *Client) InitConsultancy(ctx context.Context, bioProfile string, engagementProfile string) (string, error) {
	var reply struct {
		Emotionistant string `json:"emotionistant"`
	}
	body := map[string]interface{}{
		"bioDataProfile":           bioProfile,
		"emotionEngagementProfile": engagementProfile,
	}
	if err := c.post(ctx, "/v1/consultancy/init", body, &reply); err != nil {
		return "", err
	}
	return reply.Emotionistant, nil
}

// Inquire forwards a special-consideration request to the triage service
func (c *Client) Inquire(ctx context.Context, orgKey string, subjectID string, message string) (string, error) {
	var reply struct {
		Analysis string `json:"analysis"`
	}
	body := map[string]interface{}{
		"orgKey":                      orgKey,
		"subjectId":                   subjectID,
		"specialConsiderationMessage": message,
	}
	if err := c.post(ctx, "/v1/considerations/inquire", body, &reply); err != nil {
		return "", err
	}
	return reply.Analysis, nil
}
