// Command shadowsplit distributes a secret greyscale BMP into n
// steganographically hidden shadows under a (k,n) threshold scheme, and
// recovers a secret from any k of them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/elsesec/shadowsplit/internal/cliapp"
	"github.com/elsesec/shadowsplit/internal/shaderr"
)

func main() {
	cmd := cliapp.NewRootCommand(afero.NewOsFs())

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		kind, ok := shaderr.As(err)
		if !ok {
			os.Exit(1)
		}
		os.Exit(kind.ExitCode())
	}
}
