package expopush

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultEndpoint = "https://exp.host/--/api/v2/push/send"

type Client struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
}

func NewClient(endpoint, accessToken string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		endpoint:    endpoint,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type pushMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title,omitempty"`
	Body  string            `json:"body,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound,omitempty"`
}

type pushTicket struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details struct {
		Error string `json:"error"`
	} `json:"details"`
}

type pushResponse struct {
	Data   []pushTicket `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Push sends a single notification. All data values must already be strings;
// the provider rejects payloads with non-string data.
func (c *Client) Push(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := pushMessage{
		To:    token,
		Title: title,
		Body:  body,
		Data:  data,
		Sound: "default",
	}

	b, err := json.Marshal([]pushMessage{msg})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrInvalidCredentials
	case http.StatusTooManyRequests:
		return ErrRateExceeded
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var parsed pushResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("cannot parse push response: %w", err)
	}

	if len(parsed.Errors) > 0 {
		return fmt.Errorf("push request failed: %s", parsed.Errors[0].Message)
	}

	if len(parsed.Data) == 0 {
		return fmt.Errorf("push response contains no ticket")
	}

	ticket := parsed.Data[0]
	if ticket.Status == "ok" {
		return nil
	}

	switch ticket.Details.Error {
	case "DeviceNotRegistered":
		return ErrDeviceNotRegistered
	case "InvalidCredentials":
		return ErrInvalidCredentials
	case "MessageRateExceeded":
		return ErrRateExceeded
	case "PushTooManyExperienceIDs", "PushTooManyNotifications":
		return ErrInvalidToken
	}

	return fmt.Errorf("push rejected: %s", ticket.Message)
}
