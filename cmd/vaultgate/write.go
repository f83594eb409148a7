package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hallagren/vaultgate/internal/vault"
)

// writeCmd is the one-shot gateway entry point: validate, resolve, write,
// and print the absolute path written. Denials surface as the gateway's
// JSON error on stderr with a non-zero exit.
func writeCmd() *cobra.Command {
	var dir, file, content string
	var fromStdin, overwrite bool

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write a note through the gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, v, err := setup()
			if err != nil {
				return err
			}

			body := []byte(content)
			if fromStdin {
				body, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}

			abs, err := v.Write(vault.WriteRequest{
				Directory: dir,
				Filename:  file,
				Content:   body,
				Overwrite: overwrite,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), abs)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "relative directory under the vault root")
	cmd.Flags().StringVar(&file, "file", "", "note filename (leaf name only)")
	cmd.Flags().StringVar(&content, "content", "", "note content")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read note content from stdin")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing note")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
