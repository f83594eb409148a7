package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hallagren/vaultgate/internal/config"
	"github.com/hallagren/vaultgate/internal/vault"
)

var cfgFile string

func main() {
	root := &cobra.Command{
		Use:           "vaultgate",
		Short:         "Validated file-write gateway for a note vault",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.vaultgate/config.yaml)")

	root.AddCommand(agentCmd())
	root.AddCommand(writeCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and constructs the vault. The state directory
// is exported to the environment so telemetry and persistence agree on it.
func setup() (*config.Config, *vault.Vault, error) {
	path := cfgFile
	if path == "" {
		if p := config.DefaultPath(); p != "" {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if os.Getenv("VGT_STATE_DIR") == "" {
		_ = os.Setenv("VGT_STATE_DIR", cfg.StateDir)
	}
	v, err := vault.New(cfg.VaultRoot, cfg.ForbiddenChars)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}
