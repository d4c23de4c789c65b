package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"flowdeck/internal/kinds"
	"flowdeck/internal/nav"
)

// ParseCommand turns a palette line into an action. The first word picks
// the command; the remainder stays raw, because visibility filters carry
// their own quoting and must reach the server byte for byte.
func ParseCommand(text string) (Action, error) {
	head, rest := splitHead(strings.TrimSpace(text))
	if head == "" {
		return nil, errors.New("empty command")
	}
	switch strings.ToLower(head) {
	case "workflows", "wf":
		return GoCollection{Kind: nav.KindWorkflows, Query: rest}, nil

	case "schedules", "schedule", "sched", "sch":
		return GoCollection{Kind: nav.KindSchedules, Query: rest}, nil

	case "open", "goto":
		if rest == "" {
			return nil, errors.New("open needs a link")
		}
		return OpenLink{URI: rest}, nil

	case "namespace", "ns":
		if rest == "" {
			return OpenNamespaces{}, nil
		}
		name, _ := splitHead(rest)
		return SelectNamespace{Name: name}, nil

	case "signal", "sig":
		name, payload := splitHead(rest)
		if name == "" {
			return nil, errors.New("signal needs a name")
		}
		args := []string{name}
		if payload != "" {
			args = append(args, payload)
		}
		return InvokeOperation{Op: kinds.OpSignal, Args: args}, nil

	case "preset":
		sub, arg := splitHead(rest)
		switch sub {
		case "":
			return nil, errors.New("preset needs a name")
		case "save":
			name, _ := splitHead(arg)
			if name == "" {
				return nil, errors.New("preset save needs a name")
			}
			return SavePresetNamed{Name: name}, nil
		case "apply":
			name, _ := splitHead(arg)
			if name == "" {
				return nil, errors.New("preset apply needs a name")
			}
			return ApplyPreset{Name: name}, nil
		default:
			return ApplyPreset{Name: sub}, nil
		}

	case "refresh":
		return Refresh{}, nil

	case "yank", "copy":
		return YankLocation{}, nil

	case "help", "h":
		return OpenHelp{}, nil

	case "quit", "q", "exit":
		return Quit{}, nil
	}
	return nil, fmt.Errorf("unknown command %q", head)
}

// splitHead cuts the first whitespace-delimited word off and returns it
// with the trimmed remainder.
func splitHead(s string) (head, rest string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, func(r rune) bool { return r == ' ' || r == '\t' })
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// paletteVerbs are the canonical command names offered by completion,
// one per command (aliases excluded).
var paletteVerbs = []string{
	"help",
	"namespace",
	"open",
	"preset apply",
	"preset save",
	"quit",
	"refresh",
	"schedules",
	"signal",
	"workflows",
	"yank",
}

// CompleteCommand returns the canonical verbs the typed prefix could
// become, for the palette's tab completion.
func CompleteCommand(input string) []string {
	input = strings.TrimLeft(input, " ")
	var out []string
	for _, v := range paletteVerbs {
		if strings.HasPrefix(v, input) && v != input {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
