package pdst

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/aweris/pdst/internal/display"
	"github.com/aweris/pdst/internal/prompt"
	"github.com/aweris/pdst/internal/remote"
)

// copyPrefix names duplicates: copy_<original>.
const copyPrefix = "copy_"

// Remote is the custody store contract.
// Re-exported from internal/remote for convenience.
type Remote = remote.Custody

// Receipt is a store acknowledgement.
type Receipt = remote.Receipt

// RemoteFileRecord is a file as known by the custody store.
type RemoteFileRecord = remote.Record

// Prompter asks the human one question at a time.
type Prompter = prompt.Prompter

// Selection is a 1-based answer to Prompter.SelectOne.
type Selection = prompt.Selection

// Local is the local filesystem contract. Every method fails with a
// classified *local.Error and never recovers on its own.
type Local interface {
	ListFiles(dir string) ([]string, error)
	ListDirectories(dir string) ([]string, error)
	Exists(path string) (bool, error)
	ReadBytes(path string) ([]byte, error)
	WriteBytes(path string, content []byte) error
	Copy(src, dst string) error
	Delete(path string) error
}

// FileHandle is a file known to exist locally.
type FileHandle struct {
	Name      string
	LocalPath string
}

// Orchestrator runs custody operations. It holds no state between calls
// and must not run two operations at once: prompts share one terminal.
type Orchestrator struct {
	remote      Remote
	local       Local
	prompt      Prompter
	out         *display.Printer
	workDir     string
	concurrency int
	logger      *zap.Logger
}

// New returns an Orchestrator talking to r.
func New(r Remote, opts ...Option) (*Orchestrator, error) {
	if r == nil {
		return nil, errors.New("pdst: remote is required")
	}
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if err := options.fill(); err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	return &Orchestrator{
		remote:      r,
		local:       options.Local,
		prompt:      options.Prompter,
		out:         display.New(options.Output),
		workDir:     options.WorkDir,
		concurrency: options.Concurrency,
		logger:      options.Logger,
	}, nil
}

// WorkDir returns the directory operations act on.
func (o *Orchestrator) WorkDir() string { return o.workDir }

// Execute runs op to completion and returns its single outcome.
func (o *Orchestrator) Execute(ctx context.Context, op Operation) Outcome {
	if op == nil {
		return aborted(KindInvalidSelection, "no operation given")
	}
	start := time.Now()
	o.logger.Debug("operation started", zap.String("op", op.Op()))

	var out Outcome
	switch op := op.(type) {
	case Arrest:
		out = o.arrest(ctx, op)
	case Retrieve:
		out = o.retrieve(ctx, op)
	case Copy:
		out = o.copy(op)
	case Move:
		out = o.move(ctx, op)
	case Search:
		out = o.search(ctx, op)
	case Folder:
		out = o.folder(ctx, op)
	case List:
		out = o.list(ctx, op)
	default:
		out = aborted(KindInvalidSelection, fmt.Sprintf("unsupported operation %q", op.Op()))
	}

	fields := []zap.Field{
		zap.String("op", op.Op()),
		zap.Stringer("outcome", out.Kind),
		zap.Duration("took", time.Since(start)),
	}
	if out.Kind == Failed {
		o.logger.Info("operation failed", append(fields, zap.Stringer("kind", out.ErrorKind()), zap.Error(out.Err))...)
	} else {
		o.logger.Debug("operation finished", append(fields, zap.String("message", out.Message))...)
	}
	return out
}

func (o *Orchestrator) step(op, state, file string) {
	o.logger.Debug("transition", zap.String("op", op), zap.String("state", state), zap.String("file", file))
}

// pick shows candidates and returns the chosen one. A non-nil outcome is
// terminal: nothing to choose from, or an invalid answer.
func (o *Orchestrator) pick(title, label string, candidates []string, empty string) (string, *Outcome) {
	if len(candidates) == 0 {
		out := completed("%s", empty)
		return "", &out
	}
	o.out.Candidates(title, candidates)
	sel := o.prompt.SelectOne(label, len(candidates))
	if !sel.Valid() {
		out := invalidSelection()
		return "", &out
	}
	return candidates[sel.Index()], nil
}

// pickLocalFile resolves a file name from the working directory listing
// when none was given.
func (o *Orchestrator) pickLocalFile(opName, fileName string) (string, *Outcome) {
	if fileName != "" {
		return fileName, nil
	}
	o.step(opName, "ResolveTarget", "")
	o.out.Line("Listing all available files...")
	names, err := o.local.ListFiles(o.workDir)
	if err != nil {
		out := ioFailure("list files", err)
		return "", &out
	}
	return o.pick("Available files:", "Select a file", names, "no available files")
}

func (o *Orchestrator) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(o.workDir, name)
}

// origin splits a user-supplied file name into its local path, the name it
// is kept under in custody and the directory it is kept for.
func (o *Orchestrator) origin(name string) (path, base, location string) {
	path = o.path(name)
	return path, filepath.Base(path), filepath.Dir(path)
}

// storedOutcome maps a receipt to the terminal outcome of a submission.
func storedOutcome(rcpt Receipt) Outcome {
	msg := rcpt.Message
	switch rcpt.Status {
	case remote.AlreadyPresent:
		if msg == "" {
			msg = fmt.Sprintf("%s is already in custody", rcpt.Name)
		}
		return advisory("%s", msg)
	case remote.Created:
		if msg == "" {
			msg = fmt.Sprintf("%s has been taken into custody", rcpt.Name)
		}
		return completed("%s", msg)
	}
	return failed(&Error{Kind: KindRemote, Op: "store " + rcpt.Name, Err: fmt.Errorf("unexpected status %s", rcpt.Status)})
}

// deleteAfterReceipt is the only path that removes a local file. It runs
// strictly after a Created receipt for exactly the bytes on disk, and only
// once the store hands back those same bytes.
func (o *Orchestrator) deleteAfterReceipt(ctx context.Context, path string, content []byte, rcpt Receipt) error {
	if rcpt.Status != remote.Created {
		return &Error{Kind: KindRemote, Op: "release " + path, Err: ErrNoReceipt}
	}
	if rcpt.Digest != remote.Digest(content) {
		return &Error{Kind: KindRemote, Op: "release " + path, Err: ErrNoReceipt}
	}

	stored, err := o.remote.Retrieve(ctx, rcpt.Name, rcpt.Location)
	if err != nil {
		return &Error{Kind: KindRemote, Op: "verify " + rcpt.Name, Err: fmt.Errorf("%w: %w", ErrUnverified, err)}
	}
	if remote.Digest(stored) != rcpt.Digest {
		o.logger.Warn("custody holds different bytes than were sent",
			zap.String("file", path),
			zap.String("sent", rcpt.Digest),
			zap.String("stored", remote.Digest(stored)),
			zap.String("request_id", rcpt.RequestID))
		return &Error{Kind: KindRemote, Op: "verify " + rcpt.Name, Err: ErrUnverified}
	}

	current, err := o.local.ReadBytes(path)
	if err != nil {
		return &Error{Kind: KindIO, Op: "release " + path, Err: err}
	}
	if remote.Digest(current) != rcpt.Digest {
		return &Error{Kind: KindIO, Op: "release " + path, Err: ErrContentChanged}
	}

	o.logger.Info("point of no return: deleting local copy",
		zap.String("file", path),
		zap.String("custody_name", rcpt.Name),
		zap.String("location", rcpt.Location),
		zap.String("digest", rcpt.Digest),
		zap.String("request_id", rcpt.RequestID))

	if err := o.local.Delete(path); err != nil {
		return &Error{Kind: KindIO, Op: "delete " + path, Err: err}
	}
	return nil
}

func ioFailure(op string, err error) Outcome {
	return failed(&Error{Kind: KindIO, Op: op, Err: err})
}

func remoteFailure(op string, err error) Outcome {
	kind := KindRemote
	if remote.IsNetwork(err) {
		kind = KindNetwork
	}
	return failed(&Error{Kind: kind, Op: op, Err: err})
}

// SortRecords orders records ascending by timestamp, keeping the store's
// order for equal timestamps.
func SortRecords(records []RemoteFileRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
}

func copyName(name string) string {
	dir, base := filepath.Split(name)
	return filepath.Join(dir, copyPrefix+base)
}
