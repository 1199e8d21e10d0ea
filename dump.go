package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kr/pretty"
	"github.com/monet-lang/monet/data"
)

// dumpData decodes the literal value stored in path and prints its
// canonical form. With opts.DebugAST the decoded tree follows.
func dumpData(path string, opts options) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	v, err := data.Decode(string(src))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	io.WriteString(opts.Out, v.String()+"\n")
	if opts.DebugAST {
		pretty.Fprintf(opts.Out, "%# v\n", v)
	}
	return nil
}
