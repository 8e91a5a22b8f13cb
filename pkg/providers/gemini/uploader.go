package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/inkline/pkg/payloads"
	"github.com/go-go-golems/inkline/pkg/providers"
)

const (
	fileStateActive     = "ACTIVE"
	fileStateProcessing = "PROCESSING"

	uploadPollInterval = 500 * time.Millisecond
	uploadPollTimeout  = 30 * time.Second
)

// Uploader pushes attachment bytes through the Files API and caches the
// returned handles in the payload store under "gemini/{storageKey}". Cached
// handles are revalidated before reuse; a handle whose file is gone or no
// longer ACTIVE triggers a silent re-upload.
type Uploader struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	handles    payloads.Store
}

// NewUploader returns an uploader backed by the given handle cache.
func NewUploader(apiKey string, baseURL string, handles payloads.Store) *Uploader {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Uploader{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		baseURL:    baseURL,
		handles:    handles,
	}
}

// EnsureFileURI returns a service URI for the attachment bytes, reusing a
// cached upload when it is still alive and uploading otherwise.
func (u *Uploader) EnsureFileURI(ctx context.Context, storageKey string, mimeType string, data []byte) (string, error) {
	cacheKey := "gemini/" + storageKey

	if raw, err := u.handles.Get(ctx, cacheKey); err != nil {
		return "", errors.Wrap(err, "read cached file handle")
	} else if raw != nil {
		var cached File
		if err := json.Unmarshal(raw, &cached); err == nil && cached.Name != "" {
			if u.revalidate(ctx, cached.Name) {
				log.Debug().Str("file", cached.Name).Msg("reusing uploaded file")
				return cached.URI, nil
			}
			log.Debug().Str("file", cached.Name).Msg("cached file handle is stale, re-uploading")
		}
	}

	f, err := u.upload(ctx, mimeType, data)
	if err != nil {
		return "", err
	}

	handle, err := json.Marshal(f)
	if err != nil {
		return "", errors.Wrap(err, "marshal file handle")
	}
	if err := u.handles.Put(ctx, cacheKey, handle); err != nil {
		return "", errors.Wrap(err, "cache file handle")
	}
	return f.URI, nil
}

// revalidate checks that an uploaded file still exists and is ACTIVE.
func (u *Uploader) revalidate(ctx context.Context, name string) bool {
	url := fmt.Sprintf("%s/v1beta/%s?key=%s", u.baseURL, name, u.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := u.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return false
	}
	var f File
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return false
	}
	return f.State == fileStateActive
}

func (u *Uploader) upload(ctx context.Context, mimeType string, data []byte) (*File, error) {
	url := fmt.Sprintf("%s/upload/v1beta/files?key=%s", u.baseURL, u.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "create upload request")
	}
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("X-Goog-Upload-Protocol", "raw")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(err, "upload file")
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, providers.ErrorFromResponse(resp)
	}

	var wrapper struct {
		File File `json:"file"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return nil, errors.Wrap(err, "decode upload response")
	}
	f := wrapper.File

	for f.State == fileStateProcessing {
		if err := u.waitFile(ctx, &f); err != nil {
			return nil, err
		}
	}
	log.Debug().Str("file", f.Name).Str("state", f.State).Msg("file uploaded")
	return &f, nil
}

// waitFile polls the file resource until it leaves PROCESSING.
func (u *Uploader) waitFile(ctx context.Context, f *File) error {
	deadline := time.Now().Add(uploadPollTimeout)
	for f.State == fileStateProcessing {
		if time.Now().After(deadline) {
			return errors.Errorf("file %s still processing after %s", f.Name, uploadPollTimeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(uploadPollInterval):
		}

		url := fmt.Sprintf("%s/v1beta/%s?key=%s", u.baseURL, f.Name, u.apiKey)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return errors.Wrap(err, "create file poll request")
		}
		resp, err := u.httpClient.Do(req)
		if err != nil {
			return errors.Wrap(err, "poll file state")
		}
		var next File
		decodeErr := json.NewDecoder(resp.Body).Decode(&next)
		_ = resp.Body.Close()
		if decodeErr != nil {
			return errors.Wrap(decodeErr, "decode file poll response")
		}
		*f = next
	}
	return nil
}
