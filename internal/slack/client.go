package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	slackapi "github.com/slack-go/slack"
)

const (
	DefaultAPIURL = "https://slack.com/api/"

	methodHistory     = "conversations.history"
	methodPostMessage = "chat.postMessage"
)

// Client is a minimal Slack Web API transport: every call is a single
// JSON POST authenticated with the bot token.
type Client struct {
	token      string
	apiURL     string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithAPIURL points the client at another Web API base URL.
func WithAPIURL(apiURL string) ClientOption {
	return func(c *Client) {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		c.apiURL = apiURL
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		token:      token,
		apiURL:     DefaultAPIURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchHistory requests one page of channel history and returns the
// decoded JSON body. Pagination and checkpointing are left to the caller.
func (c *Client) FetchHistory(ctx context.Context, params HistoryParams) (map[string]any, error) {
	log.Debug().Msgf("Requesting %s for %s (limit: %d, oldest: %f, latest: %q)", methodHistory, params.ChannelID, params.Limit, params.Oldest, params.Latest)
	log.Debug().Msgf("Requesting %s for %s (limit: %d, oldest: %f)", methodHistory, params.ChannelID, params.Limit, params.Oldest)

	body, err := c.call(ctx, methodHistory, params)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, transportError(methodHistory, err)
	}
	return data, nil
}

// PostMessage sends a chat.postMessage payload and returns the ok flag.
func (c *Client) PostMessage(ctx context.Context, payload any) (bool, error) {
	if _, err := c.call(ctx, methodPostMessage, payload); err != nil {
		return false, err
	}
	return true, nil
}

// call posts payload to the given method. It fails with an UpstreamError
// when the transport fails or the envelope reports ok=false.
func (c *Client) call(ctx context.Context, method string, payload any) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to encode %s payload: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+method, bytes.NewReader(jsonData))
	if err != nil {
		return nil, transportError(method, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(method, err)
	}

	var envelope slackapi.SlackResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		if resp.StatusCode/100 != 2 {
			return nil, transportError(method, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode))
		}
		return nil, transportError(method, err)
	}

	if !envelope.Ok {
		return nil, &UpstreamError{Method: method, Code: envelope.Error}
	}

	return body, nil
}
