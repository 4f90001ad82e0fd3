package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// maxFontSize caps the size of a downloaded font file.
const maxFontSize = 32 << 20

// fontTypes lists the sniffed content types accepted as a font download.
var fontTypes = []string{"font/ttf", "font/otf", "application/octet-stream"}

// newHTTPClient returns a client making a single attempt per request.
// A failed download falls through to the next font candidate.
func newHTTPClient(logger retryablehttp.LeveledLogger) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.HTTPClient.Timeout = 20 * time.Second
	client.Logger = logger
	return client
}

// DownloadFont fetches a TrueType/OpenType font and stores it in cacheDir.
// The cached copy is keyed by the URL, so later runs do not hit the network again.
// It returns the path of the cached font file.
func DownloadFont(uri, cacheDir string, logger retryablehttp.LeveledLogger) (string, error) {
	sum := sha256.Sum256([]byte(uri))
	name := hex.EncodeToString(sum[:8]) + filepath.Ext(filepath.Base(uri))
	cached := filepath.Join(cacheDir, name)

	if _, err := os.Stat(cached); err == nil {
		return cached, nil
	}

	res, err := newHTTPClient(logger).Get(uri)
	if err != nil {
		return "", fmt.Errorf("unable to download font file from URI: %s: %w", uri, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unable to download font file from URI: %s, status %v", uri, res.Status)
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxFontSize))
	if err != nil {
		return "", fmt.Errorf("unable to read response body: %w", err)
	}

	if ctype := http.DetectContentType(data); !Contains(fontTypes, ctype) {
		return "", fmt.Errorf("the downloaded file is not a supported font type: %s", ctype)
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("unable to create font cache directory: %w", err)
	}
	if err := WriteFile(cached, data, 0o644); err != nil {
		return "", err
	}
	return cached, nil
}
