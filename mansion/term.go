package mansion

import (
	"os"

	"golang.org/x/crypto/ssh/terminal"
)

// IsTerminal returns true if stdout is an interactive terminal
func IsTerminal() bool {
	return terminal.IsTerminal(int(os.Stdout.Fd()))
}
