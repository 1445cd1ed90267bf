package commands

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/revlens/revlens/pkg/gitlib"
)

// shortHashLen is the abbreviated commit hash length.
const shortHashLen = 8

// NewCommitsCommand creates the commits command.
func NewCommitsCommand() *cobra.Command {
	var (
		path      string
		sourceRef string
		targetRef string
	)

	cmd := &cobra.Command{
		Use:   "commits [path]",
		Short: "List commits reachable from source but not target",
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

			commits, err := repo.CommitsBetween(sourceRef, targetRef)
			if err != nil {
				return err
			}

			tbl := table.NewWriter()
			tbl.SetOutputMirror(cmd.OutOrStdout())
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"Hash", "Author", "When", "Files", "Message"})

			for _, commit := range commits {
				hash := commit.Hash
				if len(hash) > shortHashLen {
					hash = hash[:shortHashLen]
				}

				tbl.AppendRow(table.Row{
					hash,
					commit.Author,
					humanize.Time(commit.Timestamp),
					len(commit.FilesChanged),
					firstLine(commit.Message),
				})
			}

			tbl.Render()

			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", ".", "Repository path")
	cmd.Flags().StringVarP(&sourceRef, "source", "s", "HEAD", "Source revision")
	cmd.Flags().StringVarP(&targetRef, "target", "t", "HEAD", "Target revision")

	return cmd
}

func firstLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		return message[:idx]
	}

	return message
}
