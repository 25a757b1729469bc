// Package remote talks to the custody store.
//
// Two backends share one contract:
// - HTTP: the custody service's JSON endpoints
// - OCI: custody kept as artifacts in a container registry
//
// Status interpretation lives here and only here. Callers branch on
// Receipt.Status and never on transport details.
package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// ErrNotText is returned by backends that carry content as JSON strings
// when the content is not valid UTF-8. Encoding it anyway would replace
// bytes and the store would acknowledge a different file.
var ErrNotText = errors.New("content is not valid UTF-8 text")

// DefaultTimeout bounds every custody call.
const DefaultTimeout = 10 * time.Second

// Status is the store's answer to a store request.
type Status int

const (
	// StatusUnknown is never returned with a nil error.
	StatusUnknown Status = iota
	// AlreadyPresent means custody already held this file; nothing was written.
	AlreadyPresent
	// Created means custody durably received the content.
	Created
)

func (s Status) String() string {
	switch s {
	case AlreadyPresent:
		return "already-present"
	case Created:
		return "created"
	default:
		return "unknown"
	}
}

// Receipt is the acknowledgement of a store request.
type Receipt struct {
	Name      string
	Location  string
	Digest    string // sha256 of the content that was sent
	Status    Status
	Message   string
	RequestID string
}

// Record is a file as known by the custody store.
type Record struct {
	Name      string
	Location  string
	Timestamp time.Time
}

// FolderFile is one member of a folder submission.
type FolderFile struct {
	Name    string
	Content []byte
}

// Custody is the remote store contract.
type Custody interface {
	// Store submits a single file.
	Store(ctx context.Context, name string, content []byte, location string) (Receipt, error)

	// Retrieve returns the stored content of name at location.
	Retrieve(ctx context.Context, name, location string) ([]byte, error)

	// Search returns records whose name matches query.
	Search(ctx context.Context, query string) ([]Record, error)

	// ListDirectory returns the names kept in custody for location.
	ListDirectory(ctx context.Context, location string) ([]string, error)

	// StoreFolder submits every file of a folder in one request.
	StoreFolder(ctx context.Context, name, location string, files []FolderFile) (Receipt, error)
}

// StatusError is returned when the store answered with a non-success status.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: custody returned status %d: %s", e.Op, e.StatusCode, e.Message)
}

// NetworkError is returned when the store could not be reached or the call
// ran past its timeout.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: custody unreachable: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsStatus reports whether err is a *StatusError.
func IsStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// IsNetwork reports whether err is a *NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// Digest returns the "sha256:<hex>" digest of content.
func Digest(content []byte) string {
	h := sha256.Sum256(content)
	return "sha256:" + hex.EncodeToString(h[:])
}

func folderDigest(files []FolderFile) string {
	h := sha256.New()
	for _, f := range files {
		h.Write([]byte(f.Name))
		h.Write([]byte{0})
		h.Write([]byte(Digest(f.Content)))
		h.Write([]byte{'\n'})
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil))
}
