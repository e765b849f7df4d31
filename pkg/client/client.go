// Package client is a typed HTTP client for the appChat API, plus the
// polling loop clients use in place of a push channel.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// User is the sender/participant profile projection returned by the API.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

type Participant struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	IsAdmin        bool   `json:"isAdmin"`
	User           User   `json:"user"`
}

type Conversation struct {
	ID                string        `json:"id"`
	Name              *string       `json:"name"`
	IsGroup           bool          `json:"isGroup"`
	CreatedAt         time.Time     `json:"createdAt"`
	Participants      []Participant `json:"participants"`
	ParticipantsNames []string      `json:"participantsNames,omitempty"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
	Sender         User      `json:"sender"`
}

// APIError carries the HTTP status and server-provided message of a failed
// call.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404. Clients
// use it to drop stale conversation state instead of retrying the same id.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusNotFound
}

// Client talks to one appChat server on behalf of one authenticated user.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		msg := resp.Status
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			if errBody.Error != "" {
				msg = errBody.Error
			} else if errBody.Message != "" {
				msg = errBody.Message
			}
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Login authenticates with credentials and stores the session token on the
// client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var result struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, &result)
	if err != nil {
		return err
	}
	c.Token = result.Token
	return nil
}

func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	var conversations []Conversation
	err := c.do(ctx, http.MethodGet, "/api/conversations", nil, &conversations)
	return conversations, err
}

func (c *Client) CreateConversation(ctx context.Context, name *string, isGroup bool, userIDs []string) (*Conversation, error) {
	var conversation Conversation
	err := c.do(ctx, http.MethodPost, "/api/conversations", map[string]interface{}{
		"name":    name,
		"isGroup": isGroup,
		"userIds": userIDs,
	}, &conversation)
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (c *Client) GetConversation(ctx context.Context, conversationID string) (*Conversation, error) {
	var conversation Conversation
	err := c.do(ctx, http.MethodGet, "/api/conversations/"+conversationID, nil, &conversation)
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (c *Client) DeleteConversation(ctx context.Context, conversationID string) error {
	return c.do(ctx, http.MethodDelete, "/api/conversations/"+conversationID, nil, nil)
}

func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	var messages []Message
	err := c.do(ctx, http.MethodGet, "/api/conversations/"+conversationID+"/messages", nil, &messages)
	return messages, err
}

func (c *Client) SendMessage(ctx context.Context, conversationID, content string) (*Message, error) {
	var message Message
	err := c.do(ctx, http.MethodPost, "/api/conversations/"+conversationID+"/messages",
		map[string]string{"content": content}, &message)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (c *Client) EditMessage(ctx context.Context, conversationID, messageID, content string) (*Message, error) {
	var message Message
	err := c.do(ctx, http.MethodPut, "/api/conversations/"+conversationID+"/messages/"+messageID,
		map[string]string{"content": content}, &message)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (c *Client) DeleteMessage(ctx context.Context, conversationID, messageID string) error {
	return c.do(ctx, http.MethodDelete, "/api/conversations/"+conversationID+"/messages/"+messageID, nil, nil)
}

// PollMessages asks for messages newer than lastMessageID. An empty
// lastMessageID returns an empty slice by contract.
func (c *Client) PollMessages(ctx context.Context, conversationID, lastMessageID string) ([]Message, error) {
	path := "/api/conversations/" + conversationID + "/messages/poll"
	if lastMessageID != "" {
		path += "?lastMessageId=" + url.QueryEscape(lastMessageID)
	}
	var messages []Message
	err := c.do(ctx, http.MethodGet, path, nil, &messages)
	return messages, err
}
