package oauth

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/ledgerlane/sheetspend/internal/core/ports/driven"
)

// Ensure SystemBrowser implements the port.
var _ driven.Browser = (*SystemBrowser)(nil)

// SystemBrowser opens URLs in the platform default browser.
type SystemBrowser struct{}

// Open opens the default browser to the given URL.
func (SystemBrowser) Open(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
