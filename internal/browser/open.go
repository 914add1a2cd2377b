// Package browser hands destination image links to the desktop's default opener.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrUnsupportedScheme is returned for links that are not http or https.
var ErrUnsupportedScheme = errors.New("browser: only http and https links can be opened")

// Open opens rawURL in the user's default browser.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("browser: parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrUnsupportedScheme
	}
	cmd, err := command(runtime.GOOS, u.String())
	if err != nil {
		return err
	}
	return cmd.Start()
}

func command(goos, target string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", target), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", target), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target), nil
	default:
		return nil, fmt.Errorf("browser: unsupported OS %s", goos)
	}
}
