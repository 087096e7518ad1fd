package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Be-Secure/besecure-developer-toolkit/internal/fileutil"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the toolkit settings",
		Long:  "Commands for inspecting ~/.bes-dev-kit/bes-dev-kit.json.",
	}

	var output string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings with the GitHub token masked",
		Long: `Print the current settings with the GitHub token masked.

The settings file is created with defaults if it does not exist yet.
Blank values are shown as they are; they are asked for by the generate commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unsupported output format %q, use json or yaml", output)
			}
			// Keep stdout to the document itself so it can be redirected.
			store, err := a.storeWithOutput(a.errOut)
			if err != nil {
				return err
			}
			if _, err := store.EnsureFile(); err != nil {
				return err
			}
			env, err := store.Load()
			if err != nil {
				return err
			}

			var b []byte
			if output == "yaml" {
				b, err = yaml.Marshal(env.Masked())
			} else {
				b, err = fileutil.MarshalIndent(env.Masked())
			}
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, string(b))
			return nil
		},
	}
	showCmd.Flags().StringVarP(&output, "output", "o", "json", "Output format (json or yaml)")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the location of the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, store.Path())
			return nil
		},
	}

	configCmd.AddCommand(showCmd, pathCmd)
	return configCmd
}
