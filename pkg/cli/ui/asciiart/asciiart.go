// Package asciiart renders the mbservctl logo shown by the bare root
// command.
package asciiart

import (
	"fmt"
	"io"
)

const logo = `          _                             _   _
 _ __ ___ | |__  ___  ___ _ ____   _____| |_| |
| '_ ` + "`" + ` _ \| '_ \/ __|/ _ \ '__\ \ / / __| __| |
| | | | | | |_) \__ \  __/ |   \ V / (__| |_| |
|_| |_| |_|_.__/|___/\___|_|    \_/ \___|\__|_|
`

// PrintLogo writes the CLI logo to the writer.
func PrintLogo(writer io.Writer) {
	_, _ = fmt.Fprint(writer, logo)
}
