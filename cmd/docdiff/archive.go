package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/fatih/color"
	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"

	"github.com/renderkit/docdiff/archive"
	"github.com/renderkit/docdiff/render"
)

func archiveDiff(cfg *ArchiveConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Archive.Parse(cc, args)
	if err != nil {
		cfg.Archive.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: archive requires 2 args, got %v", cli.ErrUsage, args)
	}
	if cfg.Gops {
		// diagnostics agent for large archive runs
		if err := agent.Listen(agent.Options{}); err != nil {
			fmt.Fprintf(cc.Out, "gops agent failed: %v\n", err)
		}
	}
	prev, err := loadArchive(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	next, err := loadArchive(cfg.MainConfig, cc, args[1])
	if err != nil {
		return err
	}
	versionID := cfg.Version
	if versionID == "" {
		versionID = filepath.Base(args[1])
	}

	v := archive.NewVersioner(
		archive.WithWorkers(cfg.Workers),
		archive.WithLogger(log),
	)
	v.DiffVersion(versionID, prev, next)

	changes := v.Changes(versionID)
	colorize := cfg.colorize(cc.Out)
	for _, id := range slices.Sorted(maps.Keys(changes)) {
		kind := string(changes[id])
		if colorize {
			switch changes[id] {
			case archive.ChangeAdded:
				kind = color.GreenString(kind)
			case archive.ChangeModified:
				kind = color.YellowString(kind)
			case archive.ChangeDeprecated:
				kind = color.RedString(kind)
			}
		}
		fmt.Fprintf(cc.Out, "%s\t%s\n", kind, id)
	}
	if !cfg.Patches {
		return nil
	}
	enc := json.NewEncoder(cc.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v.Patches(versionID))
}

// loadArchive reads every page file in dir, keyed by the page's stable
// identifier.
func loadArchive(cfg *MainConfig, cc *cli.Context, dir string) (map[string]*render.Node, error) {
	pattern := "*.json"
	if cfg.Y {
		pattern = "*.yaml"
	}
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("archive dir %q: %w", dir, err)
	}
	res := make(map[string]*render.Node, len(files))
	for _, file := range files {
		node, err := loadNode(cfg, cc, file)
		if err != nil {
			return nil, err
		}
		if node.Identifier == "" {
			return nil, fmt.Errorf("page %q has no identifier", file)
		}
		res[node.Identifier] = node
	}
	return res, nil
}
