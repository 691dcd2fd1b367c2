// Package std holds the standard library sources shipped inside the binary.
// Scripts reach them as "@std/<name>".
package std

import "embed"

//go:embed *.tiny
var FS embed.FS
