package res

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Kind classifies a loaded resource.
type Kind int

const (
	KindOther Kind = iota
	KindStylesheet
	KindDocument
)

func (k Kind) String() string {
	switch k {
	case KindStylesheet:
		return "stylesheet"
	case KindDocument:
		return "document"
	default:
		return "other"
	}
}

var (
	// ErrNotFound is returned when no file or search path holds a resource.
	ErrNotFound = errors.New("resource not found")
	// ErrWrongKind is returned when a resource is not of the requested kind.
	ErrWrongKind = errors.New("unexpected resource kind")
)

// Resource represents a loaded resource
type Resource struct {
	// URL is the resolved location; stylesheets use it as their href.
	URL      string
	Kind     Kind
	Data     []byte
	MimeType string
}

func (r *Resource) String() string { return string(r.Data) }

// Loader resolves references against a base and loads local files, remote
// http(s) resources and data URLs. Results are cached by reference.
type Loader struct {
	// BaseURL is a file path or URL relative references resolve against.
	BaseURL string

	log         *zap.Logger
	cache       map[string]*Resource
	cacheLock   sync.RWMutex
	searchPaths []string
	client      *http.Client
}

// NewLoader creates a new resource loader
func NewLoader(baseURL string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		BaseURL: baseURL,
		log:     log.Named("loader"),
		cache:   make(map[string]*Resource),
		client:  &http.Client{},
	}
}

// AddSearchPath adds a directory to search for local resources
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// Load loads a resource from a URL or file path
func (l *Loader) Load(ctx context.Context, ref string) (*Resource, error) {
	l.cacheLock.RLock()
	if r, ok := l.cache[ref]; ok {
		l.cacheLock.RUnlock()
		return r, nil
	}
	l.cacheLock.RUnlock()

	var (
		r   *Resource
		err error
	)
	if strings.HasPrefix(ref, "data:") {
		r, err = parseDataURL(ref)
	} else {
		var resolved string
		if resolved, err = l.Resolve(ref); err == nil {
			if isRemote(resolved) {
				r, err = l.loadRemote(ctx, resolved)
			} else {
				r, err = l.loadLocal(resolved)
			}
		}
	}
	if err != nil {
		return nil, err
	}

	l.log.Debug("Loaded resource", zap.String("ref", ref), zap.String("url", r.URL), zap.Stringer("kind", r.Kind), zap.Int("size", len(r.Data)))
	l.cacheLock.Lock()
	l.cache[ref] = r
	l.cacheLock.Unlock()
	return r, nil
}

// LoadStylesheet loads a CSS resource.
func (l *Loader) LoadStylesheet(ctx context.Context, ref string) (*Resource, error) {
	return l.loadKind(ctx, ref, KindStylesheet)
}

// LoadDocument loads an HTML resource.
func (l *Loader) LoadDocument(ctx context.Context, ref string) (*Resource, error) {
	return l.loadKind(ctx, ref, KindDocument)
}

func (l *Loader) loadKind(ctx context.Context, ref string, kind Kind) (*Resource, error) {
	r, err := l.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	// Untyped data is accepted as whatever the caller asked for.
	if r.Kind != kind && r.Kind != KindOther {
		return nil, fmt.Errorf("%s is a %s, not a %s: %w", ref, r.Kind, kind, ErrWrongKind)
	}
	return r, nil
}

// parseDataURL parses a data URL (RFC 2397):
//
//	data:text/css;base64,<base64>
//	data:text/css,p%20%7B%20color:red%20%7D
func parseDataURL(u string) (*Resource, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(u, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URL")
	}

	mimeType := "text/plain"
	isBase64 := false
	if meta != "" {
		comps := strings.Split(meta, ";")
		if comps[0] != "" {
			mimeType = comps[0]
		}
		for _, c := range comps[1:] {
			if strings.EqualFold(strings.TrimSpace(c), "base64") {
				isBase64 = true
			}
		}
	}

	var data []byte
	if isBase64 {
		d, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
		data = d
	} else if d, err := url.PathUnescape(payload); err == nil {
		data = []byte(d)
	} else {
		data = []byte(payload)
	}
	return &Resource{URL: u, Data: data, MimeType: mimeType, Kind: kindOf(mimeType, "")}, nil
}

func isRemote(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Resolve resolves a reference relative to the base URL
func (l *Loader) Resolve(ref string) (string, error) {
	if isRemote(ref) || filepath.IsAbs(ref) || l.BaseURL == "" {
		return ref, nil
	}
	if !isRemote(l.BaseURL) {
		return filepath.Join(filepath.Dir(l.BaseURL), ref), nil
	}

	base, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid reference %q: %w", ref, err)
	}
	return base.ResolveReference(rel).String(), nil
}

func (l *Loader) loadRemote(ctx context.Context, u string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", u, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	mimeType := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = mt
	}
	return &Resource{URL: u, Data: data, MimeType: mimeType, Kind: kindOf(mimeType, u)}, nil
}

// loadLocal reads path, falling back to the search paths by base name.
func (l *Loader) loadLocal(path string) (*Resource, error) {
	candidates := []string{path}
	for _, sp := range l.searchPaths {
		candidates = append(candidates, filepath.Join(sp, filepath.Base(path)))
	}
	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		mimeType := mimeTypeOf(p)
		return &Resource{URL: p, Data: data, MimeType: mimeType, Kind: kindOf(mimeType, p)}, nil
	}
	return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
}

func mimeTypeOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css":
		return "text/css"
	case ".html", ".htm":
		return "text/html"
	case ".xhtml":
		return "application/xhtml+xml"
	default:
		return "application/octet-stream"
	}
}

func kindOf(mimeType, path string) Kind {
	switch mimeType {
	case "text/css":
		return KindStylesheet
	case "text/html", "application/xhtml+xml":
		return KindDocument
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css":
		return KindStylesheet
	case ".html", ".htm", ".xhtml":
		return KindDocument
	}
	return KindOther
}
