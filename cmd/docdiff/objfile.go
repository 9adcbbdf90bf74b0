package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"

	"github.com/renderkit/docdiff/render"
)

// readDocument reads a JSON document from path, or standard input when
// path is "-". With -y the input is parsed as YAML and re-encoded as
// JSON first.
func readDocument(cfg *MainConfig, cc *cli.Context, path string) ([]byte, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	if !cfg.Y {
		return d, nil
	}
	var v any
	if err := yaml.Unmarshal(d, &v); err != nil {
		return nil, fmt.Errorf("error decoding yaml %q: %w", path, err)
	}
	j, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("error re-encoding %q: %w", path, err)
	}
	return j, nil
}

func loadNode(cfg *MainConfig, cc *cli.Context, path string) (*render.Node, error) {
	d, err := readDocument(cfg, cc, path)
	if err != nil {
		return nil, err
	}
	node := &render.Node{}
	if err := json.Unmarshal(d, node); err != nil {
		return nil, fmt.Errorf("error decoding page %q: %w", path, err)
	}
	return node, nil
}
