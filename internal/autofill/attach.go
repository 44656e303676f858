package autofill

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/observability"
)

// FetchFunc retrieves the raw bytes of an asset URL. Strategies default to
// plain HTTP GET; tests inject their own.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// assetFetchTimeout bounds the resume download.
const assetFetchTimeout = 30 * time.Second

// FetchAsset is the default FetchFunc.
func FetchAsset(ctx context.Context, url string) ([]byte, error) {
	client := &http.Client{Timeout: assetFetchTimeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("asset fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("asset fetch returned HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// attachResume downloads the resume, stages it in a temp file scoped to this
// step, and attaches it to the first file input under root. The temp file is
// removed before returning, on every path. Failure here is a note, never a run
// failure.
func attachResume(ctx context.Context, root browser.Root, fetch FetchFunc, url string, trail *observability.Trail) {
	input, err := root.QueryOne("input[type=file]")
	if err != nil || input == nil {
		trail.Add("Resume attachment skipped: no file input found")
		return
	}

	data, err := fetch(ctx, url)
	if err != nil {
		trail.Add("Resume download failed: %v", err)
		return
	}

	tmp, err := os.CreateTemp("", "resume-*.pdf")
	if err != nil {
		trail.Add("Resume staging failed: %v", err)
		return
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		trail.Add("Resume staging failed: %v", err)
		return
	}
	if err := tmp.Close(); err != nil {
		trail.Add("Resume staging failed: %v", err)
		return
	}

	if err := input.SetFiles(tmp.Name()); err != nil {
		trail.Add("Resume attachment failed: %v", err)
		return
	}
	trail.Add("Attached resume")
}
