package lesson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	log "github.com/echocat/slf4g"
	"gopkg.in/yaml.v3"
)

const DefaultSource = "config.json"

// Provider retrieves the lesson document.
type Provider interface {
	Load(ctx context.Context) (*Document, error)
}

type Format uint8

const (
	FormatYaml = Format(0)
	FormatToml = Format(1)
	FormatJson = Format(2)
)

func (this Format) String() string {
	switch this {
	case FormatYaml:
		return "yaml"
	case FormatToml:
		return "toml"
	case FormatJson:
		return "json"
	default:
		return fmt.Sprintf("illegal-format-%d", this)
	}
}

// FormatOf guesses the format of a document by the extension of its name.
func FormatOf(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".toml":
		return FormatToml
	case ".json":
		return FormatJson
	default:
		return FormatYaml
	}
}

// Source is a Provider which reads the document either from a local file
// or from a http(s) URL.
type Source struct {
	Location string
	Client   *http.Client
	Timeout  time.Duration
}

func (this Source) Load(ctx context.Context) (*Document, error) {
	location := this.Location
	if location == "" {
		location = DefaultSource
	}

	var doc *Document
	var err error
	if u, pErr := url.Parse(location); pErr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		doc, err = this.loadFromUrl(ctx, u)
	} else {
		doc, err = this.loadFromFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigUnavailable, err)
	}

	log.With("source", location).
		With("lessons", len(doc.Lessons)).
		Info("Lessons loaded.")
	return doc, nil
}

func (this Source) loadFromFile(fn string) (*Document, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, fmt.Errorf("cannot open lessons file %q: %w", fn, err)
	}
	defer func() {
		_ = f.Close()
	}()

	doc, err := Decode(f, FormatOf(filepath.Base(fn)))
	if err != nil {
		return nil, fmt.Errorf("cannot load lessons file %q: %w", fn, err)
	}
	return doc, nil
}

func (this Source) loadFromUrl(ctx context.Context, u *url.URL) (*Document, error) {
	timeout := this.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancelFunc := context.WithTimeout(ctx, timeout)
	defer cancelFunc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	client := this.Client
	if client == nil {
		client = http.DefaultClient
	}
	rsp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to access %v: %w", u, err)
	}
	defer func() {
		_ = rsp.Body.Close()
	}()
	if rsp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code of %v: %d - %s", u, rsp.StatusCode, rsp.Status)
	}

	format := FormatOf(u.Path)
	if mt, _, err := mime.ParseMediaType(rsp.Header.Get("Content-Type")); err == nil {
		switch {
		case strings.Contains(mt, "toml"):
			format = FormatToml
		case strings.Contains(mt, "json"):
			format = FormatJson
		case strings.Contains(mt, "yaml"):
			format = FormatYaml
		}
	}

	doc, err := Decode(rsp.Body, format)
	if err != nil {
		return nil, fmt.Errorf("cannot load lessons from %v: %w", u, err)
	}
	return doc, nil
}

// Decode reads and validates a document of the given format.
func Decode(r io.Reader, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatToml:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
	case FormatJson:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
	case FormatYaml:
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(b)) == 0 {
			return nil, fmt.Errorf("document is empty")
		}
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %v", format)
	}

	if err := doc.normalize(); err != nil {
		return nil, err
	}
	return &doc, nil
}
