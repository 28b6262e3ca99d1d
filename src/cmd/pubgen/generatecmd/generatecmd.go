package generatecmd

import (
	"github.com/spf13/cobra"

	"epubgen/src/cmd/pubgen/inputs"
	"epubgen/src/internal/assemble"
	"epubgen/src/internal/chapter"
	"epubgen/src/internal/fetch"
	"epubgen/src/internal/httpx"
	"epubgen/src/internal/store"
)

var client httpx.Doer = httpx.DefaultClient

// SetHTTPClient allows tests to inject a fake HTTP client.
func SetHTTPClient(c httpx.Doer) { client = c }

// New returns the generate command, which fetches every chapter and prints the
// assembled publication record as JSON.
func New() *cobra.Command {
	var in inputs.Flags
	cmd := &cobra.Command{
		Use:          "generate",
		Short:        "Assemble the publication record and print it as JSON",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, cfg, err := in.Load()
			if err != nil {
				return err
			}
			a := assemble.New(fetch.FromConfig(cfg, fetch.WithClient(client)), chapter.HTMLTransformer{})
			pub, err := a.Generate(cmd.Context(), rec, cfg)
			if err != nil {
				return err
			}
			return store.WriteJSON(cmd.OutOrStdout(), pub)
		},
	}
	in.Bind(cmd)
	return cmd
}
