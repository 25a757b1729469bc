package pdst

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"github.com/aweris/pdst/internal/remote"
)

// folder takes every regular file of a subdirectory into custody as one
// entry. Local files are never deleted.
func (o *Orchestrator) folder(ctx context.Context, op Folder) Outcome {
	name := op.Name
	if name == "" {
		o.step("folder", "ResolveTarget", "")
		o.out.Line("Listing all available folders...")
		dirs, err := o.local.ListDirectories(o.workDir)
		if err != nil {
			return ioFailure("list directories", err)
		}
		picked, out := o.pick("Available folders:", "Select a folder", dirs, "no available folders")
		if out != nil {
			return *out
		}
		name = picked
	}

	o.step("folder", "ReadFolder", name)
	dir, base, location := o.origin(name)
	files, err := o.readFolder(dir)
	if err != nil {
		return ioFailure("read folder "+name, err)
	}
	if len(files) == 0 {
		return advisory("%s has no files to store", name)
	}

	o.step("folder", "SubmitRemote", name)
	rcpt, err := o.remote.StoreFolder(ctx, base, location, files)
	if err != nil {
		return remoteFailure("store folder "+name, err)
	}
	return storedOutcome(rcpt)
}

func (o *Orchestrator) readFolder(dir string) ([]remote.FolderFile, error) {
	names, err := o.local.ListFiles(dir)
	if err != nil {
		return nil, err
	}

	p := pool.NewWithResults[remote.FolderFile]().
		WithMaxGoroutines(o.concurrency).
		WithErrors().
		WithFirstError()
	for _, n := range names {
		p.Go(func() (remote.FolderFile, error) {
			content, err := o.local.ReadBytes(filepath.Join(dir, n))
			if err != nil {
				return remote.FolderFile{}, err
			}
			return remote.FolderFile{Name: n, Content: content}, nil
		})
	}
	files, err := p.Wait()
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
