package tzdata

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/dvincze/phototz/internal/model"
	"github.com/dvincze/phototz/internal/util"
)

const releasesURL = "https://github.com/evansiroky/timezone-boundary-builder/releases"

// manifest side files shipped inside input-data.zip
var manifestFiles = []string{
	"expectedZoneOverlaps.json",
	"osmBoundarySources.json",
	"timezones.json",
}

// Downloader bootstraps and updates the raw polygon dataset from the
// timezone-boundary-builder releases. It is lifecycle plumbing: the
// query path never calls it.
type Downloader struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	verbose   bool
	out       io.Writer
}

// NewDownloader builds a bootstrap client from HTTP configuration
func NewDownloader(cfg model.HTTPConfig, verbose bool) *Downloader {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	return &Downloader{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
			},
		},
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		userAgent: cfg.UserAgent,
		verbose:   verbose,
		out:       os.Stderr,
	}
}

// LatestInputDataURL scrapes the releases page for the newest
// input-data.zip asset link.
func (dl *Downloader) LatestInputDataURL(ctx context.Context) (string, error) {
	body, err := dl.get(ctx, releasesURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	doc, err := html.Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse releases page: %w", err)
	}
	href := findInputDataHref(doc)
	if href == "" {
		return "", fmt.Errorf("no input-data.zip link on releases page")
	}
	if strings.HasPrefix(href, "/") {
		href = "https://github.com" + href
	}
	return href, nil
}

// findInputDataHref walks the parsed document for an anchor pointing at
// a release download of input-data.zip.
func findInputDataHref(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "a" {
		for _, attr := range n.Attr {
			if attr.Key != "href" {
				continue
			}
			if strings.Contains(attr.Val, "/timezone-boundary-builder/releases/download/") &&
				strings.HasSuffix(attr.Val, "/input-data.zip") {
				return attr.Val
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if href := findInputDataHref(c); href != "" {
			return href
		}
	}
	return ""
}

// Sync ensures the dataset exists and matches the latest release.
// Returns true if anything was downloaded or extracted.
//
// A sync is needed when any manifest file is missing, the geometry
// directory is incomplete against the manifest, or the pinned release
// URL differs from the latest one. When the releases page is
// unreachable but local data is complete, Sync is a quiet no-op.
func (dl *Downloader) Sync(ctx context.Context, ds *Dataset) (bool, error) {
	if err := os.MkdirAll(ds.GeoJSONDir(), 0o755); err != nil {
		return false, fmt.Errorf("create dataset dir: %w", err)
	}

	latest, latestErr := dl.LatestInputDataURL(ctx)
	if latestErr != nil && dl.verbose {
		fmt.Fprintf(dl.out, "Warning: could not fetch releases page: %v\n", latestErr)
	}

	need := false
	for _, name := range manifestFiles {
		if _, err := os.Stat(filepath.Join(ds.Dir, name)); err != nil {
			need = true
			break
		}
	}
	if !need {
		complete, missing, err := ds.Complete()
		switch {
		case err != nil:
			need = true
		case !complete:
			need = true
			if dl.verbose {
				fmt.Fprintf(dl.out, "Dataset incomplete: %d geometry files missing\n", len(missing))
			}
		}
	}
	if !need && latestErr == nil {
		pinned, _ := os.ReadFile(ds.URLPinPath())
		if strings.TrimSpace(string(pinned)) != latest {
			need = true
		}
	}
	if !need {
		return false, nil
	}
	if latestErr != nil {
		return false, fmt.Errorf("dataset needs update but release URL unavailable: %w", latestErr)
	}

	if dl.verbose {
		fmt.Fprintf(dl.out, "Downloading %s...\n", latest)
	}
	body, err := dl.get(ctx, latest)
	if err != nil {
		return false, err
	}
	blob, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		return false, fmt.Errorf("download input-data.zip: %w", err)
	}

	if err := extractInputData(blob, ds); err != nil {
		return false, err
	}
	if err := os.WriteFile(ds.URLPinPath(), []byte(latest+"\n"), 0o644); err != nil {
		return false, fmt.Errorf("write url pin: %w", err)
	}
	if dl.verbose {
		fmt.Fprintf(dl.out, "Timezone dataset updated.\n")
	}
	return true, nil
}

// extractInputData pulls the manifest side files and every geometry
// JSON under downloads/ out of the release zip.
func extractInputData(blob []byte, ds *Dataset) error {
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return fmt.Errorf("open input-data.zip: %w", err)
	}

	extracted := make(map[string]bool)
	for _, zf := range zr.File {
		name := zf.Name
		base := filepath.Base(name)
		var dest string
		switch {
		case isManifestFile(base) && strings.Contains(name, "input-data/"):
			dest = filepath.Join(ds.Dir, base)
			extracted[base] = true
		case strings.Contains(name, "/downloads/") && strings.HasSuffix(strings.ToLower(name), ".json"):
			dest = filepath.Join(ds.GeoJSONDir(), base)
		default:
			continue
		}
		if err := extractFile(zf, dest); err != nil {
			return err
		}
	}

	for _, name := range manifestFiles {
		if !extracted[name] {
			return fmt.Errorf("input-data.zip missing %s", name)
		}
	}
	return nil
}

func isManifestFile(base string) bool {
	for _, name := range manifestFiles {
		if base == name {
			return true
		}
	}
	return false
}

func extractFile(zf *zip.File, dest string) error {
	src, err := zf.Open()
	if err != nil {
		return fmt.Errorf("open zip member %s: %w", zf.Name, err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dest), err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("extract %s: %w", zf.Name, err)
	}
	return out.Close()
}

// get performs a rate-limited GET
func (dl *Downloader) get(ctx context.Context, url string) (io.ReadCloser, error) {
	if err := dl.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", dl.userAgent)

	resp, err := dl.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status fetching %s: %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}
