package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/expr-lang/expr"
	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/renderkit/docdiff"
	"github.com/renderkit/docdiff/patch"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	old, err := loadNode(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	newer, err := loadNode(cfg.MainConfig, cc, args[1])
	if err != nil {
		return err
	}
	p, diags := docdiff.Diff(old, newer)
	for _, d := range diags {
		log.Warn().Str("pointer", d.Pointer).Msg(d.Message)
	}
	if cfg.Filter != "" {
		p, err = filterPatch(cfg.Filter, p)
		if err != nil {
			return fmt.Errorf("%w: bad filter: %w", cli.ErrUsage, err)
		}
	}
	if err := writePatch(cc.Out, cfg.colorize(cc.Out), p); err != nil {
		return err
	}
	if !p.Empty() {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// filterPatch keeps the operations for which the expression evaluates
// to true. The expression sees op and path.
func filterPatch(src string, p patch.Patch) (patch.Patch, error) {
	env := map[string]any{"op": "", "path": ""}
	prg, err := expr.Compile(src, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, err
	}
	var res patch.Patch
	for _, op := range p {
		out, err := expr.Run(prg, map[string]any{
			"op":   string(op.Op),
			"path": op.Pointer,
		})
		if err != nil {
			return nil, err
		}
		if out.(bool) {
			res = append(res, op)
		}
	}
	return res, nil
}

// writePatch prints p as a JSON array, or as colored per-operation
// lines when writing to a terminal.
func writePatch(w io.Writer, colorize bool, p patch.Patch) error {
	if !colorize {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	for _, op := range p {
		var opStr string
		switch op.Op {
		case patch.OpAdd:
			opStr = color.GreenString("add    ")
		case patch.OpRemove:
			opStr = color.RedString("remove ")
		case patch.OpReplace:
			opStr = color.YellowString("replace")
		}
		if op.Op == patch.OpRemove {
			fmt.Fprintf(w, "%s %q\n", opStr, op.Pointer)
			continue
		}
		vd, err := json.Marshal(op.Value)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %q %s\n", opStr, op.Pointer, vd)
	}
	return nil
}
