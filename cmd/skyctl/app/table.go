package app

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// Table prints rows under header, or the raw items as JSON with -o json.
func (a *App) Table(items any, header []string, rows [][]string) error {
	if a.JSON() {
		return a.Print(items)
	}
	w := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	return w.Flush()
}

// OrDash shows empty cells as "-".
func OrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
