// Command tiny runs scripts, evaluates expressions and hosts the
// interactive prompt.
package main

import "github.com/funvibe/tiny/pkg/cli"

func main() {
	cli.Run()
}
