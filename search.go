package pdst

import (
	"context"
	"fmt"
	"time"
)

// search queries custody by name and optionally retrieves a match.
func (o *Orchestrator) search(ctx context.Context, op Search) Outcome {
	o.step("search", "QueryRemote", op.Query)
	records, err := o.remote.Search(ctx, op.Query)
	if err != nil {
		return remoteFailure("search "+op.Query, err)
	}
	if len(records) == 0 {
		return completed("no matches for %q", op.Query)
	}

	o.step("search", "PresentCandidates", op.Query)
	SortRecords(records)
	items := make([]string, len(records))
	for i, r := range records {
		items[i] = describeRecord(r)
	}
	o.out.Candidates(fmt.Sprintf("Matches for %q:", op.Query), items)

	sel := o.prompt.SelectOne("Select a file to retrieve", len(records))
	if !sel.Valid() {
		return invalidSelection()
	}
	rec := records[sel.Index()]

	location := rec.Location
	if location == "" {
		location = o.workDir
	}
	return o.fetchAndReconcile(ctx, "search", rec.Name, location)
}

func describeRecord(r RemoteFileRecord) string {
	if r.Timestamp.IsZero() {
		return fmt.Sprintf("%s  %s", r.Name, r.Location)
	}
	return fmt.Sprintf("%s  %s  %s", r.Name, r.Location, r.Timestamp.Local().Format(time.DateTime))
}
