package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Totarae/MultiLinkProxy/internal/links"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [file]",
		Short: "Print resolved links, one per line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			result, err := links.Normalize(raw)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(result.Links, "\n"))
			fmt.Fprintf(cmd.ErrOrStderr(), "%d links resolved, %d decoded\n", len(result.Links), result.DecodedCount)
			return nil
		},
	}
}
