package main

import (
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"
)

// formatFlag selects how commands print their results.
type formatFlag struct {
	Format string `help:"Output format (text, json, yaml)" default:"text" enum:"text,json,yaml" short:"f" env:"TLSHX_FORMAT"`
}

// encode writes v as JSON or YAML. Text output is written by each command.
func (f formatFlag) encode(w io.Writer, v any) error {
	switch f.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}

		_, err = w.Write(out)

		return err
	default:
		return fmt.Errorf("unsupported format %q", f.Format)
	}
}
