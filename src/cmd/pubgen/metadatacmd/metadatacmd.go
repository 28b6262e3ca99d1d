package metadatacmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"epubgen/src/cmd/pubgen/inputs"
	"epubgen/src/internal/assemble"
	"epubgen/src/internal/store"
)

// New returns the metadata command. It normalizes the record without fetching
// any chapter, which makes it a quick check of a record file.
func New() *cobra.Command {
	var in inputs.Flags
	var format string
	cmd := &cobra.Command{
		Use:          "metadata",
		Short:        "Print the normalized publication metadata without fetching chapters",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, cfg, err := in.Load()
			if err != nil {
				return err
			}
			pub, err := assemble.Metadata(rec, cfg)
			if err != nil {
				return err
			}
			switch format {
			case "json":
				return store.WriteJSON(cmd.OutOrStdout(), pub)
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(pub); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
		},
	}
	in.Bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	return cmd
}
