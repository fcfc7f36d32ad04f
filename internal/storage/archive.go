package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"bot/internal/infra"
)

const (
	archiveFetchTimeout = 30 * time.Second
	maxArchiveBytes     = 25 << 20
)

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ArchiverOptions configures an Archiver.
type ArchiverOptions struct {
	Store      *FileStore
	HTTPClient *http.Client
	Logger     infra.Logger
	TTL        time.Duration
	Sweep      time.Duration
}

// Archiver keeps local copies of delivered generations. Upstream result
// URLs expire; the archive is what the ops asset endpoint serves after
// that. A nil Archiver is valid and does nothing.
type Archiver struct {
	store      *FileStore
	httpClient *http.Client
	logger     infra.Logger
	ttl        time.Duration
	sweep      time.Duration
}

// NewArchiver builds an Archiver over the given store.
func NewArchiver(opts ArchiverOptions) *Archiver {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: archiveFetchTimeout}
	}
	sweep := opts.Sweep
	if sweep <= 0 {
		sweep = time.Hour
	}
	return &Archiver{
		store:      opts.Store,
		httpClient: client,
		logger:     opts.Logger,
		ttl:        opts.TTL,
		sweep:      sweep,
	}
}

// Save downloads the image behind resultURL and stores it under a
// per-user key. It returns the storage key.
func (a *Archiver) Save(ctx context.Context, userID int64, generationID, resultURL string) (string, error) {
	if a == nil || a.store == nil {
		return "", nil
	}
	if generationID == "" || resultURL == "" {
		return "", errors.New("storage: generation id and url are required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resultURL, nil)
	if err != nil {
		return "", fmt.Errorf("storage: fetch result: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage: fetch result: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("storage: fetch result: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArchiveBytes))
	if err != nil {
		return "", fmt.Errorf("storage: fetch result: %w", err)
	}

	key := fmt.Sprintf("%d/%s%s", userID, generationID, resultExt(resp, resultURL))
	stored, err := a.store.Write(ctx, key, data)
	if err != nil {
		return "", err
	}
	a.logger.Debug().Str("key", stored).Int("bytes", len(data)).Msg("generation archived")
	return stored, nil
}

// Run sweeps expired archive files until ctx is cancelled. It returns at
// once when no TTL is configured.
func (a *Archiver) Run(ctx context.Context) {
	if a == nil || a.store == nil || a.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(a.sweep)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := a.store.Sweep(ctx, a.ttl)
			if err != nil {
				a.logger.Warn().Err(err).Msg("archive sweep failed")
				continue
			}
			if removed > 0 {
				a.logger.Info().Int("removed", removed).Msg("archive files swept")
			}
		}
	}
}

// resultExt picks a file extension from the response content type, falling
// back to the URL path and then to jpg.
func resultExt(resp *http.Response, resultURL string) string {
	if ext, ok := extByContentType[resp.Header.Get("Content-Type")]; ok {
		return ext
	}
	if u, err := url.Parse(resultURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" {
			return ext
		}
	}
	return ".jpg"
}
