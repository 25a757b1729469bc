package pdst

import "context"

// arrest takes a local file into custody. The source is never deleted.
func (o *Orchestrator) arrest(ctx context.Context, op Arrest) Outcome {
	name, out := o.pickLocalFile("arrest", op.FileName)
	if out != nil {
		return *out
	}

	o.step("arrest", "ReadLocal", name)
	path, base, location := o.origin(name)
	content, err := o.local.ReadBytes(path)
	if err != nil {
		return ioFailure("read "+name, err)
	}

	o.step("arrest", "SubmitRemote", name)
	rcpt, err := o.remote.Store(ctx, base, content, location)
	if err != nil {
		return remoteFailure("store "+name, err)
	}
	return storedOutcome(rcpt)
}
