package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/esimov/flashcards"
	"github.com/esimov/flashcards/utils"
	"golang.org/x/term"
)

// Exit codes.
const (
	exitOK       = 0
	exitFatal    = 1
	exitMismatch = 4
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("checknames", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		svgs    = fs.String("svgs", "data/svgs", "Folder of the SVG cards")
		pngs    = fs.String("pngs", "data/pngs", "Folder of the PNG cards")
		mapping = fs.String("mapping", "mapping.json", "Letter to word mapping file")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFatal
	}
	utils.NoColor = !isTerminal(stdout)

	pairs, err := flashcards.LoadMapping(*mapping)
	if err != nil {
		fmt.Fprintln(stderr, utils.DecorateText("Error: "+err.Error(), utils.ErrorMessage))
		return exitFatal
	}
	report, err := flashcards.CheckNames(pairs, *svgs, *pngs)
	if err != nil {
		fmt.Fprintln(stderr, utils.DecorateText("Error: "+err.Error(), utils.ErrorMessage))
		return exitFatal
	}

	printReport(stdout, report, *mapping)
	if !report.OK() {
		return exitMismatch
	}
	return exitOK
}

// printReport lists the missing and unexpected files of each kind.
func printReport(w io.Writer, r *flashcards.NamingReport, mapping string) {
	fmt.Fprintf(w, "Expected total: %d\n", len(r.Expected))
	fmt.Fprintf(w, "SVGs present: %d, PNGs present: %d\n", len(r.SVGs), len(r.PNGs))

	sections := []struct {
		title string
		names []string
	}{
		{"Missing SVGs:", r.MissingSVG},
		{"Missing PNGs:", r.MissingPNG},
		{"Unexpected SVGs:", r.ExtraSVG},
		{"Unexpected PNGs:", r.ExtraPNG},
	}
	for _, s := range sections {
		if len(s.names) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", utils.DecorateText(s.title, utils.WarningMessage))
		for _, n := range s.names {
			fmt.Fprintf(w, " - %s\n", n)
		}
	}

	if r.OK() {
		fmt.Fprintf(w, "\n%s\n", utils.DecorateText("✅ All filenames match "+mapping, utils.SuccessMessage))
	}
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
