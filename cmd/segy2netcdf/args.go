package main

import (
	"strconv"
	"strings"
)

// normalizeArgs rewrites the argument forms pflag cannot parse: the
// two-word "-d NAME LENGTH" becomes "-d NAME=LENGTH", and the legacy
// "-sdn NAME" becomes "--samples-dim-name NAME".
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			return append(out, args[i:]...)
		case a == "-sdn":
			out = append(out, "--samples-dim-name")
		case (a == "-d" || a == "--dim") && i+2 < len(args) && isDimPair(args[i+1], args[i+2]):
			out = append(out, a, args[i+1]+"="+args[i+2])
			i += 2
		default:
			out = append(out, a)
		}
	}
	return out
}

func isDimPair(name, length string) bool {
	if name == "" || strings.HasPrefix(name, "-") || strings.Contains(name, "=") {
		return false
	}
	_, err := strconv.Atoi(length)
	return err == nil
}
