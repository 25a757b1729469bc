package pdst

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/aweris/pdst/internal/remote"
)

const (
	destinationLocal  = "local directory"
	destinationRemote = "remote store"
)

// move relocates a file to a local directory or into custody.
func (o *Orchestrator) move(ctx context.Context, op Move) Outcome {
	name, out := o.pickLocalFile("move", op.FileName)
	if out != nil {
		return *out
	}

	o.step("move", "ChooseDestinationKind", name)
	kind, out := o.pick("Move destinations:", "Select a destination",
		[]string{destinationLocal, destinationRemote}, "")
	if out != nil {
		return *out
	}

	if kind == destinationLocal {
		return o.moveLocal(name)
	}
	return o.moveRemote(ctx, name)
}

// moveLocal copies the file into a subdirectory of the working directory.
// The source stays in place.
func (o *Orchestrator) moveLocal(name string) Outcome {
	o.step("move", "LocalMove", name)
	dirs, err := o.local.ListDirectories(o.workDir)
	if err != nil {
		return ioFailure("list directories", err)
	}
	dir, out := o.pick("Available directories:", "Select a directory", dirs, "no available directories")
	if out != nil {
		return *out
	}

	dst := filepath.Join(o.workDir, dir, filepath.Base(name))
	exists, err := o.local.Exists(dst)
	if err != nil {
		return ioFailure("check "+dst, err)
	}
	if exists {
		return advisory("%s already exists in %s", filepath.Base(name), dir)
	}
	if err := o.local.Copy(o.path(name), dst); err != nil {
		return ioFailure("move "+name, err)
	}
	return completed("%s has been moved to %s", name, dir)
}

// moveRemote stores the file and deletes the local copy once the store
// acknowledged it as Created.
func (o *Orchestrator) moveRemote(ctx context.Context, name string) Outcome {
	o.step("move", "RemoteMove", name)
	src, base, location := o.origin(name)
	content, err := o.local.ReadBytes(src)
	if err != nil {
		return ioFailure("read "+name, err)
	}

	rcpt, err := o.remote.Store(ctx, base, content, location)
	if err != nil {
		return remoteFailure("store "+name, err)
	}

	switch rcpt.Status {
	case remote.Created:
		return o.releaseLocal(ctx, src, content, rcpt, fmt.Sprintf("%s has been moved into custody", name))
	case remote.AlreadyPresent:
		return o.moveDuplicate(ctx, name, content)
	}
	return storedOutcome(rcpt)
}

// moveDuplicate offers to store the file again as copy_<name>. Anything
// short of a Created receipt for the duplicate keeps the source.
func (o *Orchestrator) moveDuplicate(ctx context.Context, name string, content []byte) Outcome {
	src, base, location := o.origin(name)
	dup := copyPrefix + base
	o.step("move", "Duplicate", name)
	if !o.prompt.Confirm(fmt.Sprintf("%s is already in custody. Store a duplicate as %s?", name, dup)) {
		return advisory("%s is already in custody; local file kept", name)
	}

	rcpt, err := o.remote.Store(ctx, dup, content, location)
	if err != nil {
		return advisory("duplicate %s was not stored (%v); local file kept", dup, err)
	}
	if rcpt.Status != remote.Created {
		return advisory("%s is already in custody; local file kept", dup)
	}
	return o.releaseLocal(ctx, src, content, rcpt, fmt.Sprintf("%s has been moved into custody as %s", name, dup))
}

func (o *Orchestrator) releaseLocal(ctx context.Context, path string, content []byte, rcpt Receipt, msg string) Outcome {
	err := o.deleteAfterReceipt(ctx, path, content, rcpt)
	if err == nil {
		return completed("%s", msg)
	}
	if errors.Is(err, ErrContentChanged) {
		return advisory("%s stored, but the local file changed since; it was kept", filepath.Base(path))
	}
	if errors.Is(err, ErrUnverified) {
		return advisory("%s stored, but custody did not return the same content; local file kept", filepath.Base(path))
	}
	var e *Error
	if errors.As(err, &e) {
		return failed(e)
	}
	return ioFailure("delete "+path, err)
}
