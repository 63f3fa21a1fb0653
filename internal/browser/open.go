// Package browser launches the user's web browser for the login handoff.
package browser

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// command picks the launcher for url. $BROWSER wins over the platform default
// so headless and WSL setups can point at something that works.
func command(goos, env, url string) (string, []string, error) {
	if env = strings.TrimSpace(env); env != "" {
		fields := strings.Fields(env)
		return fields[0], append(fields[1:], url), nil
	}
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}

// Open opens the specified URL in the user's default browser.
func Open(url string) error {
	name, args, err := command(runtime.GOOS, os.Getenv("BROWSER"), url)
	if err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}
