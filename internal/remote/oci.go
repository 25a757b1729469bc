package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/empty"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/remote/transport"
	"github.com/google/go-containerregistry/pkg/v1/types"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const DefaultConcurrency = 4

const (
	labelName      = "dev.pdst.name"
	labelLocation  = "dev.pdst.location"
	labelTimestamp = "dev.pdst.timestamp"
	labelDigest    = "dev.pdst.digest"
	labelKind      = "dev.pdst.kind"
	labelFiles     = "dev.pdst.files"

	kindFile   = "file"
	kindFolder = "folder"

	fileTagPrefix   = "f-"
	folderTagPrefix = "d-"
)

// OCIOption configures an OCI backend.
type OCIOption func(*OCI)

// WithInsecure allows plain HTTP registries.
func WithInsecure() OCIOption {
	return func(o *OCI) { o.insecure = true }
}

// WithConcurrency sets the number of parallel registry requests.
func WithConcurrency(n int) OCIOption {
	return func(o *OCI) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithOCITimeout bounds each call. Non-positive values keep the default.
func WithOCITimeout(d time.Duration) OCIOption {
	return func(o *OCI) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithAuthenticator sets registry credentials.
func WithAuthenticator(a Authenticator) OCIOption {
	return func(o *OCI) { o.auth = a }
}

// WithOCILogger sets the logger used for receipts.
func WithOCILogger(l *zap.Logger) OCIOption {
	return func(o *OCI) {
		if l != nil {
			o.logger = l
		}
	}
}

// OCI keeps custody in a registry repository. Every file is one image
// tagged by a hash of its location and name; labels on the image config
// carry the record fields. An existing tag means the file is already in
// custody and is never overwritten.
type OCI struct {
	repo        name.Repository
	auth        Authenticator
	insecure    bool
	concurrency int
	timeout     time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

var _ Custody = (*OCI)(nil)

// NewOCI returns a backend for a repository such as "ghcr.io/me/custody".
func NewOCI(repository string, opts ...OCIOption) (*OCI, error) {
	o := &OCI{
		concurrency: DefaultConcurrency,
		timeout:     DefaultTimeout,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	var nameOpts []name.Option
	if o.insecure {
		nameOpts = append(nameOpts, name.Insecure)
	}
	repo, err := name.NewRepository(repository, nameOpts...)
	if err != nil {
		return nil, fmt.Errorf("invalid repository %q: %w", repository, err)
	}
	o.repo = repo
	return o, nil
}

func (o *OCI) String() string { return o.repo.String() }

// Store writes content as a single-layer image unless the tag already exists.
func (o *OCI) Store(ctx context.Context, fileName string, content []byte, location string) (Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	rcpt := Receipt{Name: fileName, Location: location, Digest: Digest(content), RequestID: uuid.NewString()}
	labels := o.labels(kindFile, fileName, location, rcpt.Digest)
	tag := o.repo.Tag(tagFor(fileTagPrefix, fileName, location))
	return o.write(ctx, "store", tag, rcpt, labels, addendum(fileName, content))
}

// StoreFolder writes one image with a layer per file.
func (o *OCI) StoreFolder(ctx context.Context, folder, location string, files []FolderFile) (Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	rcpt := Receipt{Name: folder, Location: location, Digest: folderDigest(files), RequestID: uuid.NewString()}
	labels := o.labels(kindFolder, folder, location, rcpt.Digest)
	names := make([]string, 0, len(files))
	adds := make([]mutate.Addendum, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
		adds = append(adds, addendum(f.Name, f.Content))
	}
	namesJSON, _ := json.Marshal(names)
	labels[labelFiles] = string(namesJSON)

	tag := o.repo.Tag(tagFor(folderTagPrefix, folder, location))
	return o.write(ctx, "store folder", tag, rcpt, labels, adds...)
}

func (o *OCI) write(ctx context.Context, op string, tag name.Tag, rcpt Receipt, labels map[string]string, adds ...mutate.Addendum) (Receipt, error) {
	exists, err := o.exists(ctx, op, tag)
	if err != nil {
		return rcpt, err
	}
	if exists {
		rcpt.Status = AlreadyPresent
		rcpt.Message = fmt.Sprintf("%s is already in custody", rcpt.Name)
		o.logReceipt(op, rcpt)
		return rcpt, nil
	}

	img, err := buildImage(adds, labels)
	if err != nil {
		return rcpt, fmt.Errorf("%s: build image: %w", op, err)
	}
	if err := remote.Write(tag, img, o.remoteOptions(ctx)...); err != nil {
		return rcpt, o.classify(op, err)
	}

	rcpt.Status = Created
	rcpt.Message = fmt.Sprintf("%s has been taken into custody", rcpt.Name)
	o.logReceipt(op, rcpt)
	return rcpt, nil
}

func (o *OCI) logReceipt(op string, rcpt Receipt) {
	o.logger.Info("custody receipt",
		zap.String("op", op),
		zap.String("file", rcpt.Name),
		zap.String("location", rcpt.Location),
		zap.Stringer("status", rcpt.Status),
		zap.String("digest", rcpt.Digest),
		zap.String("request_id", rcpt.RequestID),
		zap.String("repository", o.repo.String()))
}

// Retrieve returns the content of the file image for name at location.
func (o *OCI) Retrieve(ctx context.Context, fileName, location string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	tag := o.repo.Tag(tagFor(fileTagPrefix, fileName, location))
	img, err := remote.Image(tag, o.remoteOptions(ctx)...)
	if err != nil {
		if isNotFound(err) {
			return nil, &StatusError{Op: "retrieve", StatusCode: http.StatusNotFound, Message: fmt.Sprintf("%s not found in custody", fileName)}
		}
		return nil, o.classify("retrieve", err)
	}

	layers, err := img.Layers()
	if err != nil {
		return nil, o.classify("retrieve", err)
	}
	if len(layers) != 1 {
		return nil, &StatusError{Op: "retrieve", StatusCode: http.StatusUnprocessableEntity, Message: fmt.Sprintf("expected 1 layer, found %d", len(layers))}
	}

	rc, err := layers[0].Uncompressed()
	if err != nil {
		return nil, o.classify("retrieve", err)
	}
	data, err := io.ReadAll(rc)
	if cerr := rc.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return nil, &NetworkError{Op: "retrieve", Err: fmt.Errorf("read layer: %w", err)}
	}
	return data, nil
}

// Search returns file records whose name contains query, ignoring case.
func (o *OCI) Search(ctx context.Context, query string) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	records, err := o.scan(ctx, "search")
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(query)
	matches := records[:0]
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), query) {
			matches = append(matches, r)
		}
	}
	return matches, nil
}

// ListDirectory returns the names of files kept for location.
func (o *OCI) ListDirectory(ctx context.Context, location string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	records, err := o.scan(ctx, "list")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, r := range records {
		if r.Location == location {
			names = append(names, r.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// scan lists file tags and reads their configs in parallel.
func (o *OCI) scan(ctx context.Context, op string) ([]Record, error) {
	tags, err := remote.List(o.repo, o.remoteOptions(ctx)...)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, o.classify(op, err)
	}

	p := pool.NewWithResults[*Record]().
		WithMaxGoroutines(o.concurrency).
		WithContext(ctx).
		WithCancelOnError()

	for _, tag := range tags {
		if !strings.HasPrefix(tag, fileTagPrefix) {
			continue
		}
		p.Go(func(ctx context.Context) (*Record, error) {
			return o.describe(ctx, op, o.repo.Tag(tag))
		})
	}

	found, err := p.Wait()
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(found))
	for _, r := range found {
		if r != nil {
			records = append(records, *r)
		}
	}
	return records, nil
}

func (o *OCI) describe(ctx context.Context, op string, tag name.Tag) (*Record, error) {
	img, err := remote.Image(tag, o.remoteOptions(ctx)...)
	if err != nil {
		return nil, o.classify(op, err)
	}
	cfg, err := img.ConfigFile()
	if err != nil {
		return nil, o.classify(op, err)
	}
	labels := cfg.Config.Labels
	if labels[labelKind] != kindFile {
		return nil, nil
	}
	ts, _ := time.Parse(time.RFC3339Nano, labels[labelTimestamp])
	return &Record{
		Name:      labels[labelName],
		Location:  labels[labelLocation],
		Timestamp: ts,
	}, nil
}

func (o *OCI) exists(ctx context.Context, op string, tag name.Tag) (bool, error) {
	_, err := remote.Head(tag, o.remoteOptions(ctx)...)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, o.classify(op, err)
}

func (o *OCI) labels(kind, fileName, location, digest string) map[string]string {
	return map[string]string{
		labelKind:      kind,
		labelName:      fileName,
		labelLocation:  location,
		labelDigest:    digest,
		labelTimestamp: o.now().UTC().Format(time.RFC3339Nano),
	}
}

// classify maps registry answers to StatusError and everything else,
// including timeouts, to NetworkError.
func (o *OCI) classify(op string, err error) error {
	var terr *transport.Error
	if errors.As(err, &terr) {
		return &StatusError{Op: op, StatusCode: terr.StatusCode, Message: terr.Error()}
	}
	return &NetworkError{Op: op, Err: err}
}

func (o *OCI) remoteOptions(ctx context.Context) []remote.Option {
	options := []remote.Option{remote.WithContext(ctx), remote.WithJobs(o.concurrency)}
	if o.auth != nil {
		username, password, err := o.auth.Authenticate(o.repo.RegistryStr())
		if err == nil && username != "" {
			return append(options, remote.WithAuth(&authn.Basic{
				Username: username,
				Password: password,
			}))
		}
	}
	return append(options, remote.WithAuthFromKeychain(authn.DefaultKeychain))
}

func buildImage(adds []mutate.Addendum, labels map[string]string) (v1.Image, error) {
	img := mutate.MediaType(empty.Image, types.OCIManifestSchema1)
	img = mutate.ConfigMediaType(img, types.OCIConfigJSON)

	img, err := mutate.Append(img, adds...)
	if err != nil {
		return nil, err
	}

	cfg, err := img.ConfigFile()
	if err != nil {
		return nil, err
	}
	cfg = cfg.DeepCopy()
	cfg.Config.Labels = labels

	return mutate.ConfigFile(img, cfg)
}

func tagFor(prefix, fileName, location string) string {
	h := sha256.Sum256([]byte(location + "\x00" + fileName))
	return prefix + hex.EncodeToString(h[:])[:40]
}

func isNotFound(err error) bool {
	var terr *transport.Error
	return errors.As(err, &terr) && terr.StatusCode == http.StatusNotFound
}
