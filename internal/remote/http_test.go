package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aweris/pdst/internal/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHTTP(t *testing.T, handler http.HandlerFunc, opts ...HTTPOption) *HTTP {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	h, err := NewHTTP(ts.URL+"/pd", opts...)
	require.NoError(t, err)
	return h
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestStoreStatusMapping(t *testing.T) {
	cases := []struct {
		code   int
		status Status
		fail   bool
	}{
		{http.StatusOK, AlreadyPresent, false},
		{http.StatusCreated, Created, false},
		{http.StatusAccepted, StatusUnknown, true},
		{http.StatusInternalServerError, StatusUnknown, true},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.code), func(t *testing.T) {
			var got storeRequest
			var requestID string
			h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/pd/store", r.URL.Path)
				assert.Equal(t, http.MethodPost, r.Method)
				requestID = r.Header.Get(requestIDHeader)
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				writeJSON(w, tc.code, messageJSON{Message: "server says hi"})
			})

			rcpt, err := h.Store(context.Background(), "a.txt", []byte("hello"), "/work")
			assert.Equal(t, storeRequest{Name: "a.txt", Content: "hello", Location: "/work"}, got)
			assert.NotEmpty(t, requestID)
			assert.Equal(t, requestID, rcpt.RequestID)
			assert.Equal(t, Digest([]byte("hello")), rcpt.Digest)

			if tc.fail {
				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, tc.code, se.StatusCode)
				assert.Equal(t, "server says hi", se.Message)
				assert.False(t, IsNetwork(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.status, rcpt.Status)
			assert.Equal(t, "server says hi", rcpt.Message)
		})
	}
}

func TestStoreUnreachableIsNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	h, err := NewHTTP(url)
	require.NoError(t, err)
	_, err = h.Store(context.Background(), "a.txt", []byte("x"), "/work")
	assert.True(t, IsNetwork(err))
}

func TestCallsAreBoundedByTimeout(t *testing.T) {
	release := make(chan struct{})
	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	}, WithTimeout(50*time.Millisecond))
	defer close(release)

	start := time.Now()
	_, err := h.Retrieve(context.Background(), "a.txt", "/work")
	assert.True(t, IsNetwork(err))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNoRetryOnServerError(t *testing.T) {
	calls := 0
	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, http.StatusServiceUnavailable, messageJSON{Message: "busy"})
	})

	_, err := h.Store(context.Background(), "a.txt", []byte("x"), "/work")
	assert.True(t, IsStatus(err))
	assert.Equal(t, 1, calls)
}

func TestStoreRefusesBinaryContent(t *testing.T) {
	calls := 0
	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})
	png := []byte{0x89, 'P', 'N', 'G', 0xff, 0xfe, 0x00, 0x80}

	_, err := h.Store(context.Background(), "img.png", png, "/work")
	require.ErrorIs(t, err, ErrNotText)
	assert.False(t, IsNetwork(err))

	_, err = h.StoreFolder(context.Background(), "photos", "/work", []FolderFile{
		{Name: "a.txt", Content: []byte("ok")},
		{Name: "img.png", Content: png},
	})
	require.ErrorIs(t, err, ErrNotText)
	assert.Zero(t, calls, "nothing reaches the store")
}

func TestRetrieve(t *testing.T) {
	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		var req retrieveFileRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Name != "a.txt" {
			writeJSON(w, http.StatusNotFound, messageJSON{Message: "File not found"})
			return
		}
		assert.Equal(t, "/pd/retrieveFile", r.URL.Path)
		w.Write([]byte("stored bytes"))
	})

	data, err := h.Retrieve(context.Background(), "a.txt", "/work")
	require.NoError(t, err)
	assert.Equal(t, "stored bytes", string(data))

	_, err = h.Retrieve(context.Background(), "b.txt", "/work")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "File not found", se.Message)
}

func TestSearchDecodesTimestamps(t *testing.T) {
	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pd/search", r.URL.Path)
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "report", req.Name)
		io.WriteString(w, `{"files":[
			{"name":"report","location":"/a","timestamp":"2024-03-01T10:00:00Z"},
			{"name":"report","location":"/b","timestamp":1700000000000}
		]}`)
	})

	records, err := h.Search(context.Background(), "report")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), records[0].Timestamp.UTC())
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), records[1].Timestamp)
	assert.Equal(t, "/b", records[1].Location)
}

func TestSearchMalformedBody(t *testing.T) {
	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `not json`)
	})
	_, err := h.Search(context.Background(), "x")
	assert.True(t, IsStatus(err))
}

func TestListDirectory(t *testing.T) {
	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pd/retrieve", r.URL.Path)
		var req directoryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		writeJSON(w, http.StatusOK, map[string]any{"files": []string{req.Directory + "-one", "two"}})
	})

	names, err := h.ListDirectory(context.Background(), "/work")
	require.NoError(t, err)
	assert.Equal(t, []string{"/work-one", "two"}, names)
}

func TestStoreFolderPayload(t *testing.T) {
	var got storeFolderRequest
	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pd/storeFolder", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusCreated, messageJSON{Message: "folder stored"})
	})

	rcpt, err := h.StoreFolder(context.Background(), "docs", "/work", []FolderFile{
		{Name: "a.md", Content: []byte("A")},
		{Name: "b.md", Content: []byte("B")},
	})
	require.NoError(t, err)
	assert.Equal(t, Created, rcpt.Status)
	assert.Equal(t, "docs", got.Name)
	assert.Equal(t, "/work", got.Address)
	assert.Equal(t, 2, got.NumFiles)
	assert.Equal(t, []folderFileJSON{{"a.md", "A"}, {"b.md", "B"}}, got.Files)
}

func TestCompressedRequestBody(t *testing.T) {
	c, err := compression.NewCompressor(2, true)
	require.NoError(t, err)
	defer c.Close()

	content := bytes.Repeat([]byte("compressible "), 64)
	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "zstd", r.Header.Get("Content-Encoding"))
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		plain, err := c.Decompress(raw)
		require.NoError(t, err)
		var req storeRequest
		require.NoError(t, json.Unmarshal(plain, &req))
		assert.Equal(t, string(content), req.Content)
		writeJSON(w, http.StatusCreated, messageJSON{Message: "ok"})
	}, WithCompressor(c))

	rcpt, err := h.Store(context.Background(), "big.txt", content, "/work")
	require.NoError(t, err)
	assert.Equal(t, Created, rcpt.Status)
}

func TestNewHTTPRequiresBaseURL(t *testing.T) {
	_, err := NewHTTP("  ")
	assert.Error(t, err)
}
