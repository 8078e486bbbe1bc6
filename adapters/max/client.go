package max

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3/client"
)

// DefaultBaseURL is the public MAX Bot API endpoint
const DefaultBaseURL = "https://botapi.max.ru"

// Client talks to the MAX Bot API over HTTP
type Client struct {
	http  *client.Client
	token string
}

type ClientOption func(*Client)

// WithBaseURL points the client at another API host (tests, proxies)
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.http.SetBaseURL(url) }
}

func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		http:  client.New().SetBaseURL(DefaultBaseURL),
		token: token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx reply from the API
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("max api %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func (c *Client) params(extra map[string]string) map[string]string {
	p := map[string]string{"access_token": c.token}
	for k, v := range extra {
		p[k] = v
	}
	return p
}

func checkStatus(method, path string, resp *client.Response) error {
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return &APIError{Method: method, Path: path, Status: code, Body: string(resp.Body())}
	}
	return nil
}

// GetUpdates long-polls for new updates. marker is the value returned by the
// previous call, nil on the first one. timeout is the server-side wait.
func (c *Client) GetUpdates(ctx context.Context, marker *int64, timeout time.Duration) (*UpdateList, error) {
	q := map[string]string{
		"timeout": strconv.Itoa(int(timeout.Seconds())),
		"types":   UpdateMessageCreated + "," + UpdateMessageCallback + "," + UpdateBotStarted,
	}
	if marker != nil {
		q["marker"] = strconv.FormatInt(*marker, 10)
	}

	resp, err := c.http.Get("/updates", client.Config{
		Ctx:     ctx,
		Param:   c.params(q),
		Timeout: timeout + 10*time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}
	defer resp.Close()

	if err := checkStatus("GET", "/updates", resp); err != nil {
		return nil, err
	}

	var list UpdateList
	if err := resp.JSON(&list); err != nil {
		return nil, fmt.Errorf("failed to decode updates: %w", err)
	}
	return &list, nil
}

// SendMessage posts msg to a chat
func (c *Client) SendMessage(ctx context.Context, chatID int64, msg NewMessage) error {
	resp, err := c.http.Post("/messages", client.Config{
		Ctx:   ctx,
		Param: c.params(map[string]string{"chat_id": strconv.FormatInt(chatID, 10)}),
		Body:  msg,
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Close()

	return checkStatus("POST", "/messages", resp)
}

// AnswerCallback acknowledges a button press. A non-nil msg replaces the
// message the button was attached to.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string, msg *NewMessage, notification string) error {
	resp, err := c.http.Post("/answers", client.Config{
		Ctx:   ctx,
		Param: c.params(map[string]string{"callback_id": callbackID}),
		Body:  answerRequest{Message: msg, Notification: notification},
	})
	if err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	defer resp.Close()

	if err := checkStatus("POST", "/answers", resp); err != nil {
		return err
	}

	var res apiResult
	if err := resp.JSON(&res); err == nil && !res.Success && res.Message != "" {
		return fmt.Errorf("callback rejected: %s", res.Message)
	}
	return nil
}
