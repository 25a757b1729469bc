package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aweris/pdst/internal/compression"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL is where the custody service listens by default.
const DefaultBaseURL = "http://localhost:8000/pd"

const requestIDHeader = "X-Request-ID"

// HTTPOption configures an HTTP backend.
type HTTPOption func(*HTTP)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// WithTimeout bounds each call. Non-positive values keep the default.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithCompressor enables zstd request bodies.
func WithCompressor(c *compression.Compressor) HTTPOption {
	return func(h *HTTP) { h.compressor = c }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) HTTPOption {
	return func(h *HTTP) {
		if l != nil {
			h.logger = l
		}
	}
}

// HTTP is the custody backend for the JSON service. Calls are never retried:
// a repeated store could write twice.
type HTTP struct {
	baseURL    *url.URL
	client     *http.Client
	timeout    time.Duration
	compressor *compression.Compressor
	logger     *zap.Logger
}

var _ Custody = (*HTTP)(nil)

// NewHTTP returns a backend rooted at baseURL (e.g. "http://localhost:8000/pd").
func NewHTTP(baseURL string, opts ...HTTPOption) (*HTTP, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("remote: base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("remote: invalid base URL: %w", err)
	}

	h := &HTTP{
		baseURL: parsed,
		client:  &http.Client{},
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

type storeRequest struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	Location string `json:"location"`
}

type retrieveFileRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type searchRequest struct {
	Name string `json:"name"`
}

type directoryRequest struct {
	Directory string `json:"directory"`
}

type folderFileJSON struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type storeFolderRequest struct {
	Name     string           `json:"name"`
	Address  string           `json:"address"`
	NumFiles int              `json:"numFiles"`
	Files    []folderFileJSON `json:"files"`
}

type recordJSON struct {
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Timestamp timestamp `json:"timestamp"`
}

type messageJSON struct {
	Message string `json:"message"`
}

// Store posts to /store. 200 means already present, 201 means created.
func (h *HTTP) Store(ctx context.Context, name string, content []byte, location string) (Receipt, error) {
	rcpt := Receipt{Name: name, Location: location, Digest: Digest(content)}
	if !utf8.Valid(content) {
		return rcpt, fmt.Errorf("store %s: %w", name, ErrNotText)
	}
	resp, err := h.post(ctx, "store", "store", storeRequest{
		Name:     name,
		Content:  string(content),
		Location: location,
	})
	rcpt.RequestID = resp.requestID
	if err != nil {
		return rcpt, err
	}
	return h.receipt("store", rcpt, resp)
}

// StoreFolder posts to /storeFolder with the same status convention as Store.
func (h *HTTP) StoreFolder(ctx context.Context, name, location string, files []FolderFile) (Receipt, error) {
	rcpt := Receipt{Name: name, Location: location, Digest: folderDigest(files)}
	req := storeFolderRequest{
		Name:     name,
		Address:  location,
		NumFiles: len(files),
		Files:    make([]folderFileJSON, 0, len(files)),
	}
	for _, f := range files {
		if !utf8.Valid(f.Content) {
			return rcpt, fmt.Errorf("store folder %s: %s: %w", name, f.Name, ErrNotText)
		}
		req.Files = append(req.Files, folderFileJSON{Name: f.Name, Content: string(f.Content)})
	}
	resp, err := h.post(ctx, "store folder", "storeFolder", req)
	rcpt.RequestID = resp.requestID
	if err != nil {
		return rcpt, err
	}
	return h.receipt("store folder", rcpt, resp)
}

func (h *HTTP) receipt(op string, rcpt Receipt, resp response) (Receipt, error) {
	rcpt.Message = resp.message()
	switch resp.status {
	case http.StatusOK:
		rcpt.Status = AlreadyPresent
	case http.StatusCreated:
		rcpt.Status = Created
	default:
		return rcpt, resp.statusError(op)
	}
	h.logger.Info("custody receipt",
		zap.String("op", op),
		zap.String("file", rcpt.Name),
		zap.String("location", rcpt.Location),
		zap.Stringer("status", rcpt.Status),
		zap.String("digest", rcpt.Digest),
		zap.String("request_id", rcpt.RequestID))
	return rcpt, nil
}

// Retrieve posts to /retrieveFile and returns the raw body on 200.
func (h *HTTP) Retrieve(ctx context.Context, name, location string) ([]byte, error) {
	resp, err := h.post(ctx, "retrieve", "retrieveFile", retrieveFileRequest{Name: name, Location: location})
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, resp.statusError("retrieve")
	}
	return resp.body, nil
}

// Search posts to /search.
func (h *HTTP) Search(ctx context.Context, query string) ([]Record, error) {
	resp, err := h.post(ctx, "search", "search", searchRequest{Name: query})
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, resp.statusError("search")
	}

	var payload struct {
		Files []recordJSON `json:"files"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return nil, &StatusError{Op: "search", StatusCode: resp.status, Message: fmt.Sprintf("malformed response: %v", err)}
	}
	records := make([]Record, 0, len(payload.Files))
	for _, f := range payload.Files {
		records = append(records, Record{Name: f.Name, Location: f.Location, Timestamp: f.Timestamp.Time})
	}
	return records, nil
}

// ListDirectory posts to /retrieve.
func (h *HTTP) ListDirectory(ctx context.Context, location string) ([]string, error) {
	resp, err := h.post(ctx, "list", "retrieve", directoryRequest{Directory: location})
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, resp.statusError("list")
	}

	var payload struct {
		Files []string `json:"files"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return nil, &StatusError{Op: "list", StatusCode: resp.status, Message: fmt.Sprintf("malformed response: %v", err)}
	}
	return payload.Files, nil
}

type response struct {
	status    int
	body      []byte
	requestID string
}

func (r response) message() string {
	var m messageJSON
	if err := json.Unmarshal(r.body, &m); err == nil && m.Message != "" {
		return m.Message
	}
	if text := strings.TrimSpace(string(r.body)); text != "" && len(text) < 512 {
		return text
	}
	return http.StatusText(r.status)
}

func (r response) statusError(op string) error {
	return &StatusError{Op: op, StatusCode: r.status, Message: r.message()}
}

// post sends one JSON request. The whole exchange, body read included,
// runs under the configured timeout.
func (h *HTTP) post(ctx context.Context, op, path string, payload any) (response, error) {
	resp := response{requestID: uuid.NewString()}

	data, err := json.Marshal(payload)
	if err != nil {
		return resp, fmt.Errorf("%s: encode request: %w", op, err)
	}
	body, compressed := h.compressor.Compress(data)

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	endpoint := h.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return resp, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, resp.requestID)
	if compressed {
		req.Header.Set("Content-Encoding", compression.Encoding)
	}

	h.logger.Debug("custody request",
		zap.String("op", op),
		zap.String("url", endpoint.String()),
		zap.Int("bytes", len(body)),
		zap.Bool("zstd", compressed),
		zap.String("request_id", resp.requestID))

	httpResp, err := h.client.Do(req)
	if err != nil {
		return resp, &NetworkError{Op: op, Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return resp, &NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}
	if strings.EqualFold(httpResp.Header.Get("Content-Encoding"), compression.Encoding) && h.compressor != nil {
		if raw, err = h.compressor.Decompress(raw); err != nil {
			return resp, &StatusError{Op: op, StatusCode: httpResp.StatusCode, Message: err.Error()}
		}
	}

	resp.status = httpResp.StatusCode
	resp.body = raw
	return resp, nil
}
