package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Be-Secure/besecure-developer-toolkit/internal/prompt"
)

func newGenerateCmd(a *app) *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate OSSP metadata and assessment reports",
		Long:  "Commands for updating the OSSP datastore and generating assessment reports.",
	}
	generateCmd.AddCommand(newMetadataCmd(a), newReportCmd(a))
	return generateCmd
}

// identityFlags are the OSSP identity options shared by the generate
// commands. Omitted values are asked for.
type identityFlags struct {
	issueID int
	name    string
	version string
}

func (f *identityFlags) register(cmd *cobra.Command, withVersion bool) {
	cmd.Flags().IntVar(&f.issueID, "issue-id", 0, "OSSP id")
	cmd.Flags().StringVar(&f.name, "name", "", "OSSP name")
	if withVersion {
		cmd.Flags().StringVar(&f.version, "version", "", "Version of OSSP")
	}
}

func (f *identityFlags) resolve(a *app, cmd *cobra.Command, withVersion bool) error {
	var err error
	if !cmd.Flags().Changed("issue-id") {
		if f.issueID, err = prompt.Int(a.prompter, a.out, "Enter OSSP id"); err != nil {
			return err
		}
	}
	if f.name == "" {
		if f.name, err = prompt.NonEmpty(a.prompter, "Enter OSSP name"); err != nil {
			return err
		}
	}
	if withVersion && f.version == "" {
		if f.version, err = prompt.NonEmpty(a.prompter, "Enter version"); err != nil {
			return err
		}
	}
	return nil
}
