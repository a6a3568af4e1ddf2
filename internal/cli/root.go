// Package cli реализует утилиту linkctl: те же декодирование и генерация прокси-ссылок,
// что и в сервере, но над файлом или stdin.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd собирает дерево команд linkctl.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "linkctl",
		Short: "Decode wrapped download links and build proxy links",
		Long: `linkctl reads links one per line from a file or stdin.

Lines containing /dl/ or bare base64 are decoded from the {"url": ...} payload,
everything else is passed through. The generate command then builds CDN and
Cloudflare proxy links and prints them in the export format.`,
		SilenceUsage: true,
	}

	root.AddCommand(newDecodeCmd(), newGenerateCmd())
	return root
}

// Execute запускает корневую команду.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// readInput читает файл из аргументов или stdin команды.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
