package pdst

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

// retrieve fetches a file from custody into its location.
func (o *Orchestrator) retrieve(ctx context.Context, op Retrieve) Outcome {
	location := op.Location
	if location == "" {
		location = o.workDir
	}

	name := op.FileName
	if name == "" {
		o.step("retrieve", "ResolveTarget", "")
		o.out.Line("Listing files in custody...")
		names, err := o.remote.ListDirectory(ctx, location)
		if err != nil {
			return remoteFailure("list "+location, err)
		}
		picked, out := o.pick("Files in custody:", "Select a file", names, "no files in custody")
		if out != nil {
			return *out
		}
		name = picked
	}

	return o.fetchAndReconcile(ctx, "retrieve", name, location)
}

// fetchAndReconcile downloads name and writes it under location without
// ever overwriting an existing file.
func (o *Orchestrator) fetchAndReconcile(ctx context.Context, opName, name, location string) Outcome {
	if !filepath.IsLocal(name) {
		return failed(&Error{Kind: KindRemote, Op: "retrieve " + name, Err: fmt.Errorf("%w: %q escapes %s", ErrUnsafeName, name, location)})
	}
	o.step(opName, "FetchRemote", name)
	content, err := o.remote.Retrieve(ctx, name, location)
	if err != nil {
		return remoteFailure("retrieve "+name, err)
	}

	o.step(opName, "ReconcileLocal", name)
	dest := filepath.Join(location, name)
	exists, err := o.local.Exists(dest)
	if err != nil {
		return ioFailure("check "+dest, err)
	}
	if exists {
		if !o.prompt.Confirm(fmt.Sprintf("%s already exists. Create a copy instead?", name)) {
			return aborted(KindUserAborted, "retrieval aborted by user")
		}
		dest = filepath.Join(location, copyName(name))
		exists, err = o.local.Exists(dest)
		if err != nil {
			return ioFailure("check "+dest, err)
		}
		if exists {
			return advisory("copy already exists: %s", dest)
		}
	}

	if err := o.local.WriteBytes(dest, content); err != nil {
		return ioFailure("write "+dest, err)
	}
	o.logger.Info("file retrieved", zap.String("file", name), zap.String("location", location), zap.String("path", dest))
	return completed("%s has been released from custody to %s", name, dest)
}
