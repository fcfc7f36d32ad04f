package leonardo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL      = "https://cloud.leonardo.ai/api/rest/v1"
	defaultTimeout      = 30 * time.Second
	defaultPollInterval = 2 * time.Second
	defaultPollBudget   = 60 * time.Second

	maxResponseBytes = 1 << 20
	errorBodyLimit   = 300
)

// Generation presets. The scratch model is the production default for plain
// text prompts; the reference model accepts an init image plus a controlnet
// that keeps the guide image's influence low.
const (
	modelScratch   = "6b645e3a-d64f-4341-a6d8-7a3690fbf042"
	modelReference = "e71a1c2f-4f80-4800-934f-2c68979d8cc8"

	imageWidth  = 1040
	imageHeight = 512

	guidanceScratch   = 8
	guidanceReference = 9

	referenceInitStrength = 0.05
	referencePreprocessor = 67
	referenceStrengthType = "Low"
	referencePresetStyle  = "DYNAMIC"

	statusComplete = "COMPLETE"
	statusFailed   = "FAILED"
	statusDeclined = "DECLINED"
)

// Operation labels used in UpstreamError.Op.
const (
	opImprove   = "improve prompt"
	opCreate    = "create generation"
	opPoll      = "fetch generation"
	opInitImage = "create init image"
	opUpload    = "upload init image"
)

// Options configures the Leonardo API client.
type Options struct {
	APIKey       string
	BaseURL      string
	HTTPClient   *http.Client
	Timeout      time.Duration
	PollInterval time.Duration
	PollBudget   time.Duration
}

// Client talks to the Leonardo generation API. It owns prompt enhancement,
// generation submission, result polling and reference image uploads.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	pollBudget   time.Duration
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
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	pollBudget := opts.PollBudget
	if pollBudget <= 0 {
		pollBudget = defaultPollBudget
	}
	return &Client{
		httpClient:   client,
		baseURL:      base,
		apiKey:       strings.TrimSpace(opts.APIKey),
		pollInterval: pollInterval,
		pollBudget:   pollBudget,
	}
}

// ReferenceImage carries the raw bytes of a user-supplied guide image.
type ReferenceImage struct {
	Data []byte
	MIME string
}

// GenerateRequest describes one generation. A nil Reference generates from
// the prompt alone.
type GenerateRequest struct {
	Prompt    string
	Reference *ReferenceImage
}

// GeneratedImage is the delivered result of a completed generation.
type GeneratedImage struct {
	GenerationID string
	URL          string
}

type improveRequest struct {
	Prompt string `json:"prompt"`
}

type improveResponse struct {
	PromptGeneration struct {
		Prompt string `json:"prompt"`
	} `json:"promptGeneration"`
}

// ImprovePrompt asks the API to rewrite a prompt into a richer one. The
// input is validated locally first so obviously rejectable prompts never
// cost a round trip.
func (c *Client) ImprovePrompt(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return "", errors.New("leonardo: client not configured")
	}
	if c.apiKey == "" {
		return "", errors.New("leonardo: API key is missing")
	}
	if err := validateImprovePrompt(prompt); err != nil {
		return "", err
	}

	var out improveResponse
	if err := c.postJSON(ctx, "/prompt/improve", improveRequest{Prompt: prompt}, &out, opImprove); err != nil {
		return "", err
	}
	improved := strings.TrimSpace(out.PromptGeneration.Prompt)
	if improved == "" {
		return "", &UpstreamError{Op: opImprove, Message: "empty prompt in response"}
	}
	return improved, nil
}

// Generate runs one full generation: optional reference upload, job
// submission, then polling until the job completes or the poll budget runs
// out. It blocks for up to PollBudget plus the per-request timeouts.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GeneratedImage, error) {
	if c == nil {
		return nil, errors.New("leonardo: client not configured")
	}
	if c.apiKey == "" {
		return nil, errors.New("leonardo: API key is missing")
	}
	if err := validatePrompt(req.Prompt); err != nil {
		return nil, err
	}
	if err := validateReference(req.Reference); err != nil {
		return nil, err
	}

	var initImageID string
	if req.Reference != nil {
		id, err := c.uploadReference(ctx, req.Reference)
		if err != nil {
			return nil, err
		}
		initImageID = id
	}

	generationID, err := c.createGeneration(ctx, req.Prompt, initImageID)
	if err != nil {
		return nil, err
	}

	url, err := c.waitForGeneration(ctx, generationID)
	if err != nil {
		return nil, err
	}
	return &GeneratedImage{GenerationID: generationID, URL: url}, nil
}

type controlnetRequest struct {
	InitImageID    string `json:"initImageId"`
	InitImageType  string `json:"initImageType"`
	PreprocessorID int    `json:"preprocessorId"`
	StrengthType   string `json:"strengthType"`
}

type generationRequest struct {
	Height        int                 `json:"height"`
	Width         int                 `json:"width"`
	ModelID       string              `json:"modelId"`
	Prompt        string              `json:"prompt"`
	NumImages     int                 `json:"num_images"`
	GuidanceScale int                 `json:"guidance_scale"`
	PhotoReal     bool                `json:"photoReal"`
	PresetStyle   string              `json:"presetStyle,omitempty"`
	InitImageID   string              `json:"init_image_id,omitempty"`
	InitStrength  float64             `json:"init_strength,omitempty"`
	Controlnets   []controlnetRequest `json:"controlnets,omitempty"`
}

type createGenerationResponse struct {
	SDGenerationJob struct {
		GenerationID string `json:"generationId"`
	} `json:"sdGenerationJob"`
}

func (c *Client) createGeneration(ctx context.Context, prompt, initImageID string) (string, error) {
	body := generationRequest{
		Height:    imageHeight,
		Width:     imageWidth,
		Prompt:    prompt,
		NumImages: 1,
		PhotoReal: false,
	}
	if initImageID == "" {
		body.ModelID = modelScratch
		body.GuidanceScale = guidanceScratch
	} else {
		body.ModelID = modelReference
		body.GuidanceScale = guidanceReference
		body.PresetStyle = referencePresetStyle
		body.InitImageID = initImageID
		body.InitStrength = referenceInitStrength
		body.Controlnets = []controlnetRequest{{
			InitImageID:    initImageID,
			InitImageType:  "UPLOADED",
			PreprocessorID: referencePreprocessor,
			StrengthType:   referenceStrengthType,
		}}
	}

	var out createGenerationResponse
	if err := c.postJSON(ctx, "/generations", body, &out, opCreate); err != nil {
		return "", err
	}
	if out.SDGenerationJob.GenerationID == "" {
		return "", &UpstreamError{Op: opCreate, Message: "missing generation id in response"}
	}
	return out.SDGenerationJob.GenerationID, nil
}

type getGenerationResponse struct {
	GenerationsByPK struct {
		Status          string `json:"status"`
		GeneratedImages []struct {
			URL string `json:"url"`
		} `json:"generated_images"`
	} `json:"generations_by_pk"`
}

// waitForGeneration polls the job until it completes. Transient poll errors
// are tolerated inside the budget; a FAILED or DECLINED status ends the
// wait at once.
func (c *Client) waitForGeneration(ctx context.Context, generationID string) (string, error) {
	budget := time.NewTimer(c.pollBudget)
	defer budget.Stop()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		select {
		case <-ctx.Done():
			return "", &UpstreamError{Op: opPoll, Message: "wait interrupted", Err: ctx.Err()}
		case <-budget.C:
			msg := fmt.Sprintf("generation %s not complete after %s", generationID, c.pollBudget)
			return "", &UpstreamError{Op: opPoll, Message: msg, Err: lastErr}
		case <-ticker.C:
			var out getGenerationResponse
			if err := c.getJSON(ctx, "/generations/"+generationID, &out, opPoll); err != nil {
				lastErr = err
				continue
			}
			job := out.GenerationsByPK
			switch job.Status {
			case statusComplete:
				if len(job.GeneratedImages) == 0 || job.GeneratedImages[0].URL == "" {
					return "", &UpstreamError{Op: opPoll, Message: "completed generation has no images"}
				}
				return job.GeneratedImages[0].URL, nil
			case statusFailed, statusDeclined:
				return "", &UpstreamError{Op: opPoll, Message: fmt.Sprintf("generation %s ended upstream with status %s", generationID, job.Status)}
			}
		}
	}
}

type initImageResponse struct {
	UploadInitImage struct {
		ID     string `json:"id"`
		URL    string `json:"url"`
		Fields string `json:"fields"`
	} `json:"uploadInitImage"`
}

// uploadReference registers an init image and pushes the bytes to the
// presigned storage URL the API hands back. Fields arrives as a JSON string
// of form fields that must accompany the upload.
func (c *Client) uploadReference(ctx context.Context, ref *ReferenceImage) (string, error) {
	ext := referenceExtensions[ref.MIME]

	var out initImageResponse
	if err := c.postJSON(ctx, "/init-image", map[string]string{"extension": ext}, &out, opInitImage); err != nil {
		return "", err
	}
	grant := out.UploadInitImage
	if grant.ID == "" || grant.URL == "" {
		return "", &UpstreamError{Op: opInitImage, Message: "incomplete upload grant in response"}
	}

	fields := map[string]string{}
	if grant.Fields != "" {
		if err := json.Unmarshal([]byte(grant.Fields), &fields); err != nil {
			return "", &UpstreamError{Op: opInitImage, Message: "malformed upload fields in response", Err: err}
		}
	}

	if err := c.uploadMultipart(ctx, grant.URL, fields, ext, ref.Data); err != nil {
		return "", err
	}
	return grant.ID, nil
}

func (c *Client) uploadMultipart(ctx context.Context, uploadURL string, fields map[string]string, ext string, data []byte) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return &UpstreamError{Op: opUpload, Message: "build upload form", Err: err}
		}
	}
	part, err := form.CreateFormFile("file", "reference."+ext)
	if err != nil {
		return &UpstreamError{Op: opUpload, Message: "build upload form", Err: err}
	}
	if _, err := part.Write(data); err != nil {
		return &UpstreamError{Op: opUpload, Message: "build upload form", Err: err}
	}
	if err := form.Close(); err != nil {
		return &UpstreamError{Op: opUpload, Message: "build upload form", Err: err}
	}

	// The grant URL is presigned, so no Authorization header here.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &buf)
	if err != nil {
		return &UpstreamError{Op: opUpload, Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Op: opUpload, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return &UpstreamError{Op: opUpload, StatusCode: resp.StatusCode, Message: upstreamMessage(raw)}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any, op string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &UpstreamError{Op: op, Message: "encode request", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &UpstreamError{Op: op, Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out, op)
}

func (c *Client) getJSON(ctx context.Context, path string, out any, op string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &UpstreamError{Op: op, Message: "build request", Err: err}
	}
	return c.do(req, out, op)
}

func (c *Client) do(req *http.Request, out any, op string) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Op: op, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &UpstreamError{Op: op, Message: "read response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode, Message: upstreamMessage(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &UpstreamError{Op: op, Message: "decode response", Err: err}
	}
	return nil
}

// upstreamMessage pulls the API's error field out of a failure body, falling
// back to a trimmed snippet of the raw payload.
func upstreamMessage(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return body.Error
	}
	snippet := strings.TrimSpace(string(raw))
	if snippet == "" {
		return "no response body"
	}
	if len(snippet) > errorBodyLimit {
		snippet = snippet[:errorBodyLimit] + "..."
	}
	return snippet
}
