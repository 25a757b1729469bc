package cmd

import (
	"strings"

	"github.com/aweris/pdst"
)

// shortForms maps the single-dash and long flag spellings of each
// operation onto its command name.
var shortForms = map[string]string{
	"-a":         "arrest",
	"--arrest":   "arrest",
	"-r":         "retrieve",
	"--retrieve": "retrieve",
	"-c":         "copy",
	"--copy":     "copy",
	"-m":         "move",
	"--move":     "move",
	"-s":         "search",
	"--search":   "search",
	"-f":         "folder",
	"--folder":   "folder",
	"-l":         "list",
	"--list":     "list",
	"--dir":      "list",
}

// normalizeArgs rewrites a leading operation flag into its command so
// "pdst -a report.pdf" runs "pdst arrest report.pdf".
func normalizeArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	name, ok := shortForms[args[0]]
	if !ok {
		return args
	}
	out := make([]string, len(args))
	out[0] = name
	copy(out[1:], args[1:])
	return out
}

// splitWords tokenizes fallback arguments on whitespace.
func splitWords(args []string) []string {
	var words []string
	for _, a := range args {
		words = append(words, strings.Fields(a)...)
	}
	return words
}

func searchOp(query string) pdst.Operation {
	return pdst.Search{Query: query}
}
