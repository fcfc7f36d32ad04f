package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	defaultTimeout = 65 * time.Second

	maxDownloadBytes = 25 << 20
)

// Chat actions accepted by sendChatAction.
const (
	ChatActionTyping      = "typing"
	ChatActionUploadPhoto = "upload_photo"
)

// Options configures the Bot API client.
type Options struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client is a thin Bot API client over the JSON method envelope. The default
// timeout leaves room for a 30 second getUpdates long poll; callers that
// raise the poll window must raise Timeout with it.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient builds a Client, applying defaults for anything unset.
func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: client,
		baseURL:    base,
		token:      strings.TrimSpace(opts.Token),
	}
}

// APIError is Telegram's refusal of a method call.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: %s: %s (%d)", e.Method, e.Description, e.Code)
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
}

type getUpdatesRequest struct {
	Offset         int64    `json:"offset,omitempty"`
	Timeout        int      `json:"timeout,omitempty"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

// GetUpdates long polls for new updates starting at offset. It blocks for up
// to timeout before returning an empty batch.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	payload := getUpdatesRequest{
		Offset:         offset,
		Timeout:        int(timeout / time.Second),
		AllowedUpdates: []string{"message", "callback_query"},
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage delivers a text message, optionally with an inline keyboard.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	var msg Message
	if err := c.call(ctx, "sendMessage", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SendPhoto delivers a photo by file_id or URL.
func (c *Client) SendPhoto(ctx context.Context, req SendPhotoRequest) (*Message, error) {
	var msg Message
	if err := c.call(ctx, "sendPhoto", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SendChatAction shows a typing or uploading hint in the chat.
func (c *Client) SendChatAction(ctx context.Context, chatID int64, action string) error {
	payload := struct {
		ChatID int64  `json:"chat_id"`
		Action string `json:"action"`
	}{ChatID: chatID, Action: action}
	return c.call(ctx, "sendChatAction", payload, nil)
}

// AnswerCallbackQuery acknowledges a button press so the client stops
// showing its progress spinner.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	payload := struct {
		CallbackQueryID string `json:"callback_query_id"`
		Text            string `json:"text,omitempty"`
	}{CallbackQueryID: callbackID, Text: text}
	return c.call(ctx, "answerCallbackQuery", payload, nil)
}

// EditMessageReplyMarkup replaces a message's inline keyboard. A nil markup
// removes the keyboard.
func (c *Client) EditMessageReplyMarkup(ctx context.Context, chatID int64, messageID int, markup *InlineKeyboardMarkup) error {
	payload := struct {
		ChatID      int64                 `json:"chat_id"`
		MessageID   int                   `json:"message_id"`
		ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
	}{ChatID: chatID, MessageID: messageID, ReplyMarkup: markup}
	return c.call(ctx, "editMessageReplyMarkup", payload, nil)
}

// GetFile resolves a file_id into a download path.
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	payload := struct {
		FileID string `json:"file_id"`
	}{FileID: fileID}
	var file File
	if err := c.call(ctx, "getFile", payload, &file); err != nil {
		return nil, err
	}
	if file.FilePath == "" {
		return nil, &APIError{Method: "getFile", Description: "no file path in response"}
	}
	return &file, nil
}

// DownloadFile fetches the bytes behind a getFile path.
func (c *Client) DownloadFile(ctx context.Context, filePath string) ([]byte, error) {
	url := c.baseURL + "/file/bot" + c.token + "/" + strings.TrimLeft(filePath, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("telegram: download file: %w", c.redact(err))
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram: download file: %w", c.redact(err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram: download file: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("telegram: download file: %w", err)
	}
	return data, nil
}

// SetWebhook points Telegram at url for update delivery. The secret token is
// echoed back on every webhook request so the receiver can authenticate it.
func (c *Client) SetWebhook(ctx context.Context, url, secretToken string) error {
	payload := struct {
		URL            string   `json:"url"`
		SecretToken    string   `json:"secret_token,omitempty"`
		AllowedUpdates []string `json:"allowed_updates,omitempty"`
	}{URL: url, SecretToken: secretToken, AllowedUpdates: []string{"message", "callback_query"}}
	return c.call(ctx, "setWebhook", payload, nil)
}

// DeleteWebhook switches update delivery back to long polling.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	return c.call(ctx, "deleteWebhook", struct{}{}, nil)
}

func (c *Client) call(ctx context.Context, method string, payload, out any) error {
	if c == nil || c.token == "" {
		return errors.New("telegram: client not configured")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: %s: encode request: %w", method, err)
	}
	url := c.baseURL + "/bot" + c.token + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: %s: %w", method, c.redact(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %s: %w", method, c.redact(err))
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDownloadBytes)).Decode(&envelope); err != nil {
		return fmt.Errorf("telegram: %s: decode response (status %d): %w", method, resp.StatusCode, err)
	}
	if !envelope.OK {
		desc := envelope.Description
		if desc == "" {
			desc = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return &APIError{Method: method, Code: envelope.ErrorCode, Description: desc}
	}
	if out != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("telegram: %s: decode result: %w", method, err)
		}
	}
	return nil
}

// redact strips the bot token out of transport errors. The token rides in
// the request URL, and url.Error reproduces the URL verbatim.
func (c *Client) redact(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if c.token == "" || !strings.Contains(msg, c.token) {
		return err
	}
	return errors.New(strings.ReplaceAll(msg, c.token, "<token>"))
}
