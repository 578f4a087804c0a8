package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/capset"
	"github.com/hupe1980/capset/internal/config"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <filter>",
		Short: "Print the catalog capabilities matching a filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, _ := cmd.Flags().GetString("catalog")
			mandatory, _ := cmd.Flags().GetBool("mandatory")
			asJSON, _ := cmd.Flags().GetBool("json")

			set, err := loadSet(catalog, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			matches, err := set.MatchString(args[0], mandatory)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), matches)
			}
			for _, c := range matches {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), c.String()); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().String("catalog", "", "YAML capability catalog")
	cmd.Flags().Bool("mandatory", false, "require the filter to reference every mandatory attribute")
	cmd.Flags().Bool("json", false, "print matches as JSON")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print index statistics for a catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, _ := cmd.Flags().GetString("catalog")
			set, err := loadSet(catalog, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			s := set.Stats()
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"capabilities=%d indexed=%d buckets=%d postings=%d memory=%d\n",
				s.Capabilities, s.IndexedAttributes, s.Buckets, s.Postings, s.MemoryBytes)
			return err
		},
	}
	cmd.Flags().String("catalog", "", "YAML capability catalog")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

// loadSet builds a Set from the catalog at path, logging to logOut.
func loadSet(path string, logOut io.Writer) (*capset.Set, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level, _ := cfg.SlogLevel() // validated by Load
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(logOut, handlerOpts)
	} else {
		handler = slog.NewTextHandler(logOut, handlerOpts)
	}

	schema, _ := cfg.AttributeSchema()
	opts := []capset.Option{
		capset.WithLogger(capset.NewLogger(handler)),
		capset.WithSchema(schema),
		capset.WithScanWorkers(cfg.Scan.Workers),
	}
	if cfg.Scan.ParallelThreshold != 0 {
		opts = append(opts, capset.WithScanParallelThreshold(cfg.Scan.ParallelThreshold))
	}
	set := capset.New(cfg.Indexed, opts...)

	caps, err := cfg.BuildCapabilities()
	if err != nil {
		return nil, err
	}
	for _, c := range caps {
		if err := set.Add(c); err != nil {
			return nil, fmt.Errorf("%s: %w", c, err)
		}
	}
	return set, nil
}

type capabilityJSON struct {
	Namespace  string          `json:"namespace"`
	Attributes []attributeJSON `json:"attributes"`
}

type attributeJSON struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Value     string `json:"value"`
	Mandatory bool   `json:"mandatory,omitempty"`
}

func writeJSON(w io.Writer, caps []*capset.Capability) error {
	out := make([]capabilityJSON, 0, len(caps))
	for _, c := range caps {
		cj := capabilityJSON{Namespace: c.Namespace()}
		for _, a := range c.Attributes() {
			cj.Attributes = append(cj.Attributes, attributeJSON{
				Name:      a.Name,
				Type:      a.Value.Kind().String(),
				Value:     a.Value.String(),
				Mandatory: a.Mandatory,
			})
		}
		out = append(out, cj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
