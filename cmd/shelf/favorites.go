package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/app"
)

func newFavoritesCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Local favorite books",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List favorite books",
			Args:  cobra.NoArgs,
			RunE: flags.withEnv(func(cmd *cobra.Command, env *app.Env, _ []string) error {
				books, err := env.Favorites.Books(cmd.Context(), env.Client, env.Log)
				if err != nil {
					return err
				}
				writeBooks(cmd.OutOrStdout(), books, env.Favorites.IsFavorite)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "toggle <id>",
			Short: "Add or remove a book from favorites",
			Args:  cobra.ExactArgs(1),
			RunE: flags.withEnv(func(cmd *cobra.Command, env *app.Env, args []string) error {
				now, err := env.Favorites.Toggle(args[0])
				if err != nil {
					return err
				}
				if now {
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favorites\n", args[0])
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from favorites\n", args[0])
				}
				return nil
			}),
		},
	)
	return cmd
}
