package cmd

import (
	"github.com/spf13/cobra"
)

func newMetadataCmd(a *app) *cobra.Command {
	var (
		id        identityFlags
		overwrite bool
	)
	metadataCmd := &cobra.Command{
		Use:   "metadata",
		Short: "Update OSSP-Master.json and the version details file of an OSSP",
		Long: `Add or update the OSSP entry in OSSP-Master.json and write its version details
file in the OSSPOI_DIR datastore.

Existing entries are kept unless --overwrite is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := id.resolve(a, cmd, false); err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			env, err := store.Prepare()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			gen := a.newGenerator(ctx, id.issueID, id.name, env)
			if err := gen.UpdateMaster(ctx, overwrite); err != nil {
				return err
			}
			return gen.UpdateVersion(ctx, overwrite)
		},
	}
	id.register(metadataCmd, false)
	metadataCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite the existing entries")
	return metadataCmd
}
