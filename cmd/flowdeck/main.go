package main

import (
	"os"
	"strings"

	"flowdeck/internal/cli"
)

func isDeepLink(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "temporal://")
}

func rewriteDeepLinkArgs(argv []string) []string {
	// Convenience: `flowdeck <temporal://...>` works like `flowdeck open <uri>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	//
	// Users often pass persistent flags first (e.g. `flowdeck --address ... <uri>`),
	// so we must find the first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	// Minimal persistent-flag awareness. Unknown flags are skipped (without
	// consuming a value) to avoid accidentally eating the link.
	valueFlags := map[string]bool{
		"--address":       true,
		"--namespace":     true,
		"--api-key":       true,
		"--tls-cert":      true,
		"--tls-key":       true,
		"--poll-interval": true,
		"--page-size":     true,
		"--log-file":      true,
		"--log-level":     true,
		"--db":            true,
		"--theme":         true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// Stop flag parsing; next token (if any) is the first positional.
			if i+1 < len(argv) && isDeepLink(argv[i+1]) {
				out := make([]string, 0, len(argv)+1)
				out = append(out, argv[:i+1]...)
				out = append(out, "open")
				out = append(out, argv[i+1:]...)
				return out
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			// --flag=value form
			if strings.Contains(a, "=") {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
				continue
			}
			continue
		}

		// First positional token.
		if isDeepLink(a) {
			out := make([]string, 0, len(argv)+1)
			out = append(out, argv[:i]...)
			out = append(out, "open")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDeepLinkArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
