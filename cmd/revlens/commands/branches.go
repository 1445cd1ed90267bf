package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/revlens/revlens/pkg/gitlib"
)

// NewBranchesCommand creates the branches command.
func NewBranchesCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "branches [path]",
		Short: "List branches, common ones first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				path = args[0]
			}

			repo, err := gitlib.Open(path)
			if err != nil {
				return err
			}
			defer repo.Free()

			branches, err := repo.Branches()
			if err != nil {
				return err
			}

			for _, branch := range branches {
				fmt.Fprintln(cmd.OutOrStdout(), branch)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", ".", "Repository path")

	return cmd
}
