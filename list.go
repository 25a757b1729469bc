package pdst

import "context"

// list prints the names held in custody for a location.
func (o *Orchestrator) list(ctx context.Context, op List) Outcome {
	location := op.Location
	if location == "" {
		location = o.workDir
	}

	o.step("list", "QueryRemote", location)
	names, err := o.remote.ListDirectory(ctx, location)
	if err != nil {
		return remoteFailure("list "+location, err)
	}
	if len(names) == 0 {
		return completed("no files in custody")
	}

	rows := make([][]string, len(names))
	for i, n := range names {
		rows[i] = []string{n}
	}
	o.out.Table([]string{"name"}, rows)
	return completed("%d file(s) in custody for %s", len(names), location)
}
