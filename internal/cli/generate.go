package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Totarae/MultiLinkProxy/internal/export"
	"github.com/Totarae/MultiLinkProxy/internal/links"
)

const stdoutPath = "-"

type generateOptions struct {
	tab       string
	filenames bool
	output    string
	save      bool
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Decode links and print proxy links in export format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.tab, "tab", "t", string(export.TabCDN), "link set: cdn, cloudflare or original")
	cmd.Flags().BoolVar(&opts.filenames, "filenames", false, "prefix every link with its filename")
	cmd.Flags().StringVarP(&opts.output, "output", "o", stdoutPath, "output file, - for stdout")
	cmd.Flags().BoolVar(&opts.save, "save", false, "write to the default export file name")
	cmd.MarkFlagsMutuallyExclusive("output", "save")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string, opts *generateOptions) error {
	tab, err := export.ParseTab(opts.tab)
	if err != nil {
		return err
	}

	raw, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	result, err := links.Normalize(raw)
	if err != nil {
		return err
	}
	processed, err := links.Generate(result.Links)
	if err != nil {
		return err
	}

	content := export.Format(processed, tab, opts.filenames)

	path := opts.output
	if opts.save {
		path = export.FileName(tab, opts.filenames)
	}

	if path == stdoutPath {
		fmt.Fprintln(cmd.OutOrStdout(), content)
	} else {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", path)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%d links processed, %d decoded\n", len(processed), result.DecodedCount)
	return nil
}
