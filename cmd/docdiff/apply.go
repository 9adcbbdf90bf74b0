package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/renderkit/docdiff/patch"
)

func apply(cfg *ApplyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Apply.Parse(cc, args)
	if err != nil {
		cfg.Apply.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: apply requires 2 arguments, a patch and a page to apply it to", cli.ErrUsage)
	}
	pd, err := readDocument(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	var p patch.Patch
	if err := json.Unmarshal(pd, &p); err != nil {
		return fmt.Errorf("error decoding patch %q: %w", args[0], err)
	}
	doc, err := readDocument(cfg.MainConfig, cc, args[1])
	if err != nil {
		return err
	}
	out, err := p.Apply(doc)
	if err != nil {
		return fmt.Errorf("error patching %q: %w", args[1], err)
	}
	buf := bytes.NewBuffer(nil)
	if err := json.Indent(buf, out, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = cc.Out.Write(buf.Bytes())
	return err
}
