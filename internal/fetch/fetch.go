// Package fetch resolves remote content references (paths such as
// "/papers/gkp.md" or "posts/note.md") to markdown text.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"folio/internal/domain/config"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// ErrStatus is returned for any non-2xx response.
var ErrStatus = errors.New("fetch: unexpected status")

type Fetcher interface {
	Fetch(ctx context.Context, ref string) (string, error)
}

// New picks the HTTP fetcher when a base URL is configured, otherwise the
// content directory on disk.
func New(cfg config.FetchConfig, contentDir string) (Fetcher, error) {
	if cfg.BaseURL != "" {
		h, err := NewHTTP(cfg.BaseURL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
	return Dir{Root: contentDir}, nil
}

// Dir reads references relative to a directory, the way a static host
// would serve them from its document root.
type Dir struct {
	Root string
}

func (d Dir) Fetch(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(ref)), "/")
	if !fs.ValidPath(name) || name == "." {
		return "", fmt.Errorf("fetch: invalid reference %q: %w", ref, fs.ErrInvalid)
	}
	data, err := fs.ReadFile(os.DirFS(d.Root), name)
	if err != nil {
		return "", fmt.Errorf("fetch: read %s: %w", ref, err)
	}
	return string(data), nil
}

type HTTP struct {
	Base    *url.URL
	Client  *http.Client
	Timeout time.Duration

	conv *converter.Converter
}

func NewHTTP(baseURL string, timeout time.Duration) (*HTTP, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("fetch: base url: %w", err)
	}
	return &HTTP{
		Base:    u,
		Client:  http.DefaultClient,
		Timeout: timeout,
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}, nil
}

// Resolve joins a reference onto the base URL. Absolute URLs pass through.
func (h *HTTP) Resolve(ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("fetch: parse %q: %w", ref, err)
	}
	return h.Base.ResolveReference(u).String(), nil
}

func (h *HTTP) Fetch(ctx context.Context, ref string) (string, error) {
	target, err := h.Resolve(ref)
	if err != nil {
		return "", err
	}
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("fetch: request %s: %w", target, err)
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, text/html;q=0.5")
	resp, err := h.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: get %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: %s: %d", ErrStatus, target, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch: read %s: %w", target, err)
	}

	mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mt != "text/html" {
		return string(body), nil
	}
	md, err := h.conv.ConvertString(string(body), converter.WithDomain(target))
	if err != nil {
		return "", fmt.Errorf("fetch: convert %s: %w", target, err)
	}
	return strings.TrimSpace(md), nil
}
