package cli

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"go.hackfix.me/confmap/store"
)

var separator = strings.Repeat("=", 35)

// displayStore writes every entry of s between two separator lines.
func displayStore(w io.Writer, s store.Store) {
	fmt.Fprintln(w, separator)
	s.ForEach(func(key, value string) {
		fmt.Fprintf(w, "key:[%s] value:[%s]\n", key, value)
	})
	fmt.Fprintln(w, separator)
}

// displayList writes the elements of seq on a single line.
func displayList(w io.Writer, label string, seq iter.Seq[string]) {
	fmt.Fprintf(w, "%s:[", label)
	for s := range seq {
		fmt.Fprintf(w, "\t%s", s)
	}
	fmt.Fprintln(w, "]")
}
