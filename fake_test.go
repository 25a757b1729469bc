package pdst

import (
	"context"
	"path"
	"sort"
	"sync"

	"github.com/aweris/pdst/internal/remote"
)

// fakeRemote is an in-memory custody store. Errors set on it are returned
// by the matching call every time.
type fakeRemote struct {
	mu      sync.Mutex
	files   map[string][]byte
	records []remote.Record
	folders map[string][]remote.FolderFile

	storeErr    error
	storeErrFor map[string]error
	retrieveErr error
	searchErr   error
	listErr     error

	stores []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		files:       map[string][]byte{},
		folders:     map[string][]remote.FolderFile{},
		storeErrFor: map[string]error{},
	}
}

func (f *fakeRemote) put(location, name string, content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path.Join(location, name)] = content
}

func (f *fakeRemote) has(location, name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[path.Join(location, name)]
	return ok
}

func (f *fakeRemote) Store(_ context.Context, name string, content []byte, location string) (Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stores = append(f.stores, name)
	if err := f.storeErrFor[name]; err != nil {
		return Receipt{}, err
	}
	if f.storeErr != nil {
		return Receipt{}, f.storeErr
	}

	rcpt := Receipt{Name: name, Location: location, Digest: remote.Digest(content), RequestID: "req-" + name}
	key := path.Join(location, name)
	if _, ok := f.files[key]; ok {
		rcpt.Status = remote.AlreadyPresent
		return rcpt, nil
	}
	f.files[key] = content
	rcpt.Status = remote.Created
	return rcpt, nil
}

func (f *fakeRemote) Retrieve(_ context.Context, name, location string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	content, ok := f.files[path.Join(location, name)]
	if !ok {
		return nil, &remote.StatusError{Op: "retrieve", StatusCode: 404, Message: "file not found"}
	}
	return content, nil
}

func (f *fakeRemote) Search(context.Context, string) ([]remote.Record, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return append([]remote.Record(nil), f.records...), nil
}

func (f *fakeRemote) ListDirectory(_ context.Context, location string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var names []string
	for key := range f.files {
		if path.Dir(key) == path.Clean(location) {
			names = append(names, path.Base(key))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeRemote) StoreFolder(_ context.Context, name, location string, files []remote.FolderFile) (Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return Receipt{}, f.storeErr
	}
	key := path.Join(location, name)
	rcpt := Receipt{Name: name, Location: location, RequestID: "req-" + name}
	if _, ok := f.folders[key]; ok {
		rcpt.Status = remote.AlreadyPresent
		return rcpt, nil
	}
	f.folders[key] = files
	rcpt.Status = remote.Created
	return rcpt, nil
}
