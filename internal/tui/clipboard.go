package tui

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

type clipboardTool struct {
	name string
	args []string
}

// clipboardTools lists the copy commands to try for this platform, in
// preference order.
func clipboardTools() []clipboardTool {
	switch runtime.GOOS {
	case "darwin":
		return []clipboardTool{{name: "pbcopy"}}
	case "windows":
		return []clipboardTool{
			{name: "cmd", args: []string{"/c", "clip"}},
			{name: "powershell", args: []string{"-NoProfile", "-Command", "Set-Clipboard"}},
		}
	default:
		// Prefer Wayland if available, then X11 fallbacks.
		return []clipboardTool{
			{name: "wl-copy"},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
		}
	}
}

func copyToClipboard(s string) error {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var lastErr error
	for _, tool := range clipboardTools() {
		if _, err := exec.LookPath(tool.name); err != nil {
			lastErr = err
			continue
		}
		cmd := exec.Command(tool.name, tool.args...)
		cmd.Stdin = strings.NewReader(s)
		if err := cmd.Run(); err != nil {
			lastErr = errors.New(tool.name + ": " + err.Error())
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("no clipboard tool found")
	}
	return lastErr
}
