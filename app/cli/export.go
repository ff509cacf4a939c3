package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	actx "go.hackfix.me/confmap/app/context"
	"go.hackfix.me/confmap/store"
)

// The Export command writes the configuration entries in a structured format,
// preserving the store enumeration order.
type Export struct {
	Format string `enum:"yaml,json" default:"yaml" help:"Output format: ${enum}."`

	Source `embed:""`
}

// Run the export command.
func (c *Export) Run(appCtx *actx.Context) error {
	st, err := c.load(appCtx)
	if err != nil {
		return err
	}
	entries := store.Collect(st)
	if err = st.Close(); err != nil {
		return err
	}

	switch c.Format {
	case "json":
		return writeJSON(appCtx.Stdout, entries)
	default:
		return writeYAML(appCtx.Stdout, entries)
	}
}

func writeYAML(w io.Writer, entries []store.Entry) error {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range entries {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Value},
		)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("failed encoding YAML: %w", err)
	}

	return enc.Close()
}

// writeJSON writes entries as a single JSON object. encoding/json sorts map
// keys, so the object is assembled manually to keep the entry order.
func writeJSON(w io.Writer, entries []store.Entry) error {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, e := range entries {
		if i > 0 {
			buf.WriteString(",")
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return err
		}
		buf.WriteString("\n  ")
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(v)
	}
	if len(entries) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")

	_, err := buf.WriteTo(w)
	return err
}
