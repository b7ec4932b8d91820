package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
)

// rawMarkdown disables terminal rendering, for tests and pipes.
var rawMarkdown = os.Getenv("BT_RAW_MARKDOWN") != ""

// printMarkdown renders markdown for the terminal, and prints it. If the
// rendering fails the markdown is printed as is.
func printMarkdown(md string) {
	if rawMarkdown {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
