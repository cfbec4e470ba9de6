// Package aoml is the HTTP client for the AOML drifter archive: directory
// listings, dirfl metadata files, and per-drifter netCDF downloads.
package aoml

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client talks to the AOML archive over HTTPS. The data base URL holds the
// per-drifter netCDF subdirectories; the metadata base URL holds the dirfl
// directory files.
type Client struct {
	httpClient  *http.Client
	dataBaseURL string
	metaBaseURL string
	logger      *slog.Logger
}

// NewClient creates an archive client with a per-request timeout. A stalled
// request fails that one identifier, never the whole batch.
func NewClient(dataBaseURL, metaBaseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		dataBaseURL: strings.TrimSuffix(dataBaseURL, "/"),
		metaBaseURL: strings.TrimSuffix(metaBaseURL, "/"),
		logger:      logger,
	}
}

// DataFileURL returns the archive URL of one drifter's netCDF file.
func (c *Client) DataFileURL(subdir string, id int64) string {
	return fmt.Sprintf("%s/%s/drifter_%d.nc", c.dataBaseURL, subdir, id)
}

// ListDirectory fetches the HTML index of one archive subdirectory and
// returns the raw body for filename pattern matching.
func (c *Client) ListDirectory(ctx context.Context, subdir string) (string, error) {
	u := fmt.Sprintf("%s/%s/", c.dataBaseURL, subdir)
	body, err := c.get(ctx, u)
	if err != nil {
		return "", fmt.Errorf("list directory %s: %w", subdir, err)
	}
	defer body.Close()

	b, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("list directory %s: read body: %w", subdir, err)
	}
	return string(b), nil
}

// FetchMetadata opens one dirfl directory file. The caller must close the
// returned reader.
func (c *Client) FetchMetadata(ctx context.Context, name string) (io.ReadCloser, error) {
	u := fmt.Sprintf("%s/%s", c.metaBaseURL, name)
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata %s: %w", name, err)
	}
	return body, nil
}

// Download streams the file at url into w.
func (c *Client) Download(ctx context.Context, url string, w io.Writer) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	if _, err := io.Copy(w, body); err != nil {
		return fmt.Errorf("read %s: %w", url, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("archive error: status %d: %s", resp.StatusCode, body)
	}
	return resp.Body, nil
}
