package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Y     bool `cli:"name=y aliases=yaml desc='read documents as yaml'"`
	Color bool `cli:"name=color desc='force colored output'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// colorize reports whether output to w should be colored: forced via
// -color, otherwise only when w is a terminal.
func (cfg *MainConfig) colorize(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type DiffConfig struct {
	*MainConfig
	Filter string `cli:"name=filter desc='keep only operations matching this expression over op and path'"`

	Diff *cli.Command
}

type ApplyConfig struct {
	*MainConfig

	Apply *cli.Command
}

type ArchiveConfig struct {
	*MainConfig
	Workers int    `cli:"name=workers desc='number of concurrent page diffs'"`
	Version string `cli:"name=version desc='version identifier to record the diffs under'"`
	Gops    bool   `cli:"name=gops desc='start a gops diagnostics agent'"`
	Patches bool   `cli:"name=patches desc='print the per-page patches as well'"`

	Archive *cli.Command
}
