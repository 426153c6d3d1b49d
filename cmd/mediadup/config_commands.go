package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mediadup/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and bootstrap the configuration",
	}
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init [path]",
		Short:       "Write a starter configuration file",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTargetPath(args)
			if err != nil {
				return err
			}

			if _, err := os.Stat(target); err == nil {
				if !force {
					return fmt.Errorf("%s already exists; pass --force to replace it", target)
				}
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("check config path: %w", err)
			}

			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("write starter config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Starter configuration written to %s\n", target)
			fmt.Fprintln(out, "Adjust extensions, worker count, and report paths to taste.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing configuration file")
	return cmd
}

func initTargetPath(args []string) (string, error) {
	if len(args) == 0 {
		return config.DefaultConfigPath()
	}
	return config.ExpandPath(strings.TrimSpace(args[0]))
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Check the configuration and show the paths in effect",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var flagPath string
			if ctx.configFlag != nil {
				flagPath = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, path, exists, err := config.Load(flagPath)
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "Using %s\n", path)
			} else {
				fmt.Fprintf(out, "No config file at %s; built-in defaults apply\n", path)
			}
			fmt.Fprintf(out, "Report directory: %s\n", cfg.Paths.ReportDir)
			fmt.Fprintf(out, "History database: %s\n", cfg.Paths.DatabasePath)
			fmt.Fprintf(out, "Extensions: %d configured, hashing workers: %s\n",
				len(cfg.Scan.Extensions), describeWorkers(cfg.Scan.Workers))
			fmt.Fprintln(out, "Configuration OK")
			return nil
		},
	}
}

func describeWorkers(n int) string {
	if n == 0 {
		return "one per CPU core"
	}
	return fmt.Sprintf("%d", n)
}
