// Package browser opens watch links in the user's default browser.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrUnsupportedPlatform is returned when no launcher is known for the OS.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Opener opens a URL for the user.
type Opener interface {
	Open(rawURL string) error
}

// System opens URLs with the platform's default handler.
// GOOS defaults to the running platform.
type System struct {
	GOOS string
}

// Open validates rawURL and starts the platform launcher without waiting for it.
func (s System) Open(rawURL string) error {
	goos := s.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	cmd, err := Command(goos, rawURL)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Validate accepts only absolute http and https URLs, which keeps arbitrary
// arguments away from the launcher.
func Validate(rawURL string) error {
	if rawURL == "" {
		return errors.New("invalid URL: empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %q (only http and https allowed)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL: missing host in %q", rawURL)
	}
	return nil
}

// Command builds the launcher command for goos.
func Command(goos, rawURL string) (*exec.Cmd, error) {
	if err := Validate(rawURL); err != nil {
		return nil, err
	}

	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", rawURL), nil // #nosec G204 -- URL validated above
	case "darwin":
		return exec.Command("open", rawURL), nil // #nosec G204 -- URL validated above
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL), nil // #nosec G204 -- URL validated above
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}
