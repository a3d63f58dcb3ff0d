// Package catalog loads the product catalog served by the API.
// The catalog is read once at startup from a local file or a URL.
package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/Lixing-Zhang/beerstyle-api/internal/models"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a catalog source
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// Loader reads catalogs from local files and http(s) URLs
type Loader struct {
	client *http.Client
}

// NewLoader creates a loader using the given HTTP client for remote sources.
// A nil client gets a client with a one minute timeout.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: time.Minute}
	}
	return &Loader{client: client}
}

// Load reads every product from source
func (l *Loader) Load(ctx context.Context, source string) ([]models.Product, error) {
	if source == "" {
		return nil, fmt.Errorf("no catalog source provided")
	}

	rc, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	name := sourceName(source)

	var r io.Reader = rc
	if strings.HasSuffix(name, ".gz") {
		gzReader, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		r = gzReader
		name = strings.TrimSuffix(name, ".gz")
	}

	products, err := Decode(r, DetectFormat(name))
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", source, err)
	}
	return products, nil
}

// Load reads a catalog with a default loader
func Load(ctx context.Context, source string) ([]models.Product, error) {
	return NewLoader(nil).Load(ctx, source)
}

// DetectFormat picks the format from a file name; JSON unless it ends in .yaml or .yml
func DetectFormat(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses a catalog and checks that product ids are unique
func Decode(r io.Reader, format Format) ([]models.Product, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog: %w", err)
	}

	if format == FormatYAML {
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, err
		}
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(products))
	for i, p := range products {
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate product id %d at index %d", p.ID, i)
		}
		seen[p.ID] = true
	}

	return products, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !isURL(source) {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download catalog: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// sourceName strips any query string so the extension can be inspected
func sourceName(source string) string {
	if isURL(source) {
		if i := strings.IndexAny(source, "?#"); i >= 0 {
			source = source[:i]
		}
	}
	return source
}

// yamlToJSON re-encodes a YAML sequence as JSON so both formats share one decoder
func yamlToJSON(data []byte) ([]byte, error) {
	var records []map[string]interface{}
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&records); err != nil {
		if err == io.EOF {
			return []byte("[]"), nil
		}
		return nil, fmt.Errorf("invalid YAML catalog: %w", err)
	}

	out, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML catalog: %w", err)
	}
	return out, nil
}
