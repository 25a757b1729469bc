package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	helpTitle = lipgloss.NewStyle().Bold(true).Foreground(failureColor)
	helpBold  = lipgloss.NewStyle().Bold(true)
	helpCmd   = lipgloss.NewStyle().Foreground(failureColor)
)

type helpOption struct {
	flags string
	text  string
}

var helpOptions = []helpOption{
	{"-h, --help", "Shows this help message"},
	{"-v, --version", "Shows the version of the tool"},
	{"-a, --arrest, store", "store a file in Storage"},
	{"-r, --retrieve, get", "retrieve a file from Storage"},
	{"-c, --copy, cp", "copy a file local to current directory"},
	{"-m, --move, mv", "move a file to a local directory or to Storage"},
	{"-s, --search, find", "search for a file in Storage"},
	{"-f, --folder", "store a whole folder in Storage"},
	{"-l, --list, ls", "list files kept in Storage for this directory"},
	{"<File Name>", "all files with same name will be listed"},
	{"-a <File Name>", "store the named file without listing"},
	{"-r <File Name>", "retrieve a file from Storage"},
}

// HelpText returns the rendered usage text.
func HelpText() string {
	var b strings.Builder
	b.WriteString("\n" + helpTitle.Render("pdst") + " - private data storage tool\n")
	b.WriteString("  " + helpBold.Render("USAGE") + "\n")
	for _, usage := range []string{"--help", "--version", "-a, --arrest, store", "-r, --retrieve, get", "-s, --search <name>"} {
		b.WriteString("    " + helpBold.Render("$") + " " + helpCmd.Render("pdst") + " " + usage + "\n")
	}
	b.WriteString("\n  " + helpBold.Render("OPTIONS") + "\n")
	for _, opt := range helpOptions {
		b.WriteString("    " + padRight(opt.flags, 36) + opt.text + "\n")
	}
	return b.String()
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}
