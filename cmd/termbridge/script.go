package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/termbridge/network"
)

// loadScript reads a command list: either a bare list of command trees or
// a mapping with a commands key. .json files decode as JSON, anything else as YAML.
func loadScript(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	var tree any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&tree)
	} else {
		err = yaml.Unmarshal(data, &tree)
	}
	if err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}

	switch t := tree.(type) {
	case []any:
		return t, nil
	case map[string]any:
		cmds, ok := t["commands"].([]any)
		if !ok {
			return nil, fmt.Errorf("script %s: commands must be a list", path)
		}
		return cmds, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("script %s: expected a command list, got %T", path, tree)
}

// runScript executes the commands through the same path remote calls take
func runScript(h *network.Handler, cmds []any) error {
	if cmds == nil {
		cmds = []any{}
	}
	_, failure := h.Handle(network.CallRequest{Method: "execute", Args: []any{cmds}})
	if failure != nil {
		return failure
	}
	return nil
}
