// Package clipboard copies text to the system clipboard. When no clipboard
// utility is available (headless hosts, SSH sessions) it falls back to the
// OSC 52 terminal escape, which most terminal emulators honour.
package clipboard

import (
	"encoding/base64"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
)

// seams for tests
var (
	writeAll    = clipboard.WriteAll
	unsupported = func() bool { return clipboard.Unsupported }
)

type Clipboard struct {
	term io.Writer
}

// New returns a Clipboard that writes the OSC 52 fallback to term. A nil
// term disables the fallback.
func New(term io.Writer) *Clipboard {
	return &Clipboard{term: term}
}

func (c *Clipboard) Copy(text string) error {
	var sysErr error
	if !unsupported() {
		if sysErr = writeAll(text); sysErr == nil {
			return nil
		}
	}

	if c.term == nil {
		if sysErr == nil {
			sysErr = fmt.Errorf("no clipboard utility found")
		}
		return sysErr
	}

	_, err := io.WriteString(c.term, osc52(text))
	return err
}

func osc52(text string) string {
	return "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\a"
}
