// Package pdst takes files into and out of a remote custody store.
//
// An Orchestrator runs one Operation at a time against a Remote store and
// the local filesystem, asking the user to choose between candidates when
// an operation was started without a target:
//
//	store, _ := remote.NewHTTP(remote.DefaultBaseURL)
//	o, _ := pdst.New(store)
//
//	out := o.Execute(ctx, pdst.Arrest{FileName: "report.pdf"})
//	fmt.Println(out)
//
// Every Execute call ends in exactly one Outcome: Completed, Aborted or
// Failed. Local files are only ever deleted by a remote Move, and only
// after the store returned a Created receipt for the exact bytes on disk.
// A store that answers AlreadyPresent, fails, or times out leaves the
// local file where it was.
package pdst
