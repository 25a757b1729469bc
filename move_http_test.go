package pdst

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aweris/pdst/internal/local"
	"github.com/aweris/pdst/internal/prompt"
	"github.com/aweris/pdst/internal/remote"
)

// custodyServer mimics the custody service: JSON string content in,
// raw content out.
type custodyServer struct {
	mu      sync.Mutex
	files   map[string]string
	tamper  bool
	storeN  int
	fetched int
}

func (s *custodyServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req struct {
		Name     string `json:"name"`
		Content  string `json:"content"`
		Location string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	key := path.Join(req.Location, req.Name)

	switch r.URL.Path {
	case "/pd/store":
		s.storeN++
		if _, ok := s.files[key]; ok {
			w.WriteHeader(http.StatusOK)
			return
		}
		s.files[key] = req.Content
		w.WriteHeader(http.StatusCreated)
	case "/pd/retrieveFile":
		s.fetched++
		content, ok := s.files[key]
		if !ok {
			http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
			return
		}
		if s.tamper {
			content = "tampered"
		}
		w.Write([]byte(content))
	default:
		http.NotFound(w, r)
	}
}

func newHTTPHarness(t *testing.T, srv *custodyServer) (*Orchestrator, afero.Fs) {
	t.Helper()
	srv.files = map[string]string{}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	store, err := remote.NewHTTP(ts.URL + "/pd")
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(workDir, 0o755))
	o, err := New(store,
		WithLocal(local.New(fs)),
		WithPrompter(prompt.NewScripted("2")),
		WithOutput(&bytes.Buffer{}),
		WithWorkDir(workDir),
	)
	require.NoError(t, err)
	return o, fs
}

func TestMoveOverHTTP(t *testing.T) {
	ctx := context.Background()

	t.Run("binary file is refused and kept", func(t *testing.T) {
		srv := &custodyServer{}
		o, fs := newHTTPHarness(t, srv)
		png := []byte{0x89, 'P', 'N', 'G', 0xff, 0xfe, 0x00, 0x80}
		require.NoError(t, afero.WriteFile(fs, workDir+"/img.png", png, 0o644))

		out := o.Execute(ctx, Move{FileName: "img.png"})

		assert.Equal(t, Failed, out.Kind)
		assert.Equal(t, KindRemote, out.ErrorKind())
		assert.ErrorIs(t, out.Err, remote.ErrNotText)
		got, err := afero.ReadFile(fs, workDir+"/img.png")
		require.NoError(t, err)
		assert.Equal(t, png, got)
		assert.Zero(t, srv.storeN)
	})

	t.Run("text file is verified then deleted", func(t *testing.T) {
		srv := &custodyServer{}
		o, fs := newHTTPHarness(t, srv)
		require.NoError(t, afero.WriteFile(fs, workDir+"/notes.txt", []byte("héllo"), 0o644))

		out := o.Execute(ctx, Move{FileName: "notes.txt"})

		assert.Equal(t, Completed, out.Kind)
		assert.False(t, out.Advisory)
		assert.Equal(t, "héllo", srv.files[workDir+"/notes.txt"])
		assert.Equal(t, 1, srv.fetched)
		ok, err := afero.Exists(fs, workDir+"/notes.txt")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("store returning other bytes keeps the file", func(t *testing.T) {
		srv := &custodyServer{tamper: true}
		o, fs := newHTTPHarness(t, srv)
		require.NoError(t, afero.WriteFile(fs, workDir+"/notes.txt", []byte("hello"), 0o644))

		out := o.Execute(ctx, Move{FileName: "notes.txt"})

		assert.Equal(t, Completed, out.Kind)
		assert.True(t, out.Advisory)
		got, err := afero.ReadFile(fs, workDir+"/notes.txt")
		require.NoError(t, err)
		assert.Equal(t, "hello", string(got))
	})
}
