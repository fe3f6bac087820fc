package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hashnav/internal/config"
	hnerrors "github.com/vango-dev/hashnav/internal/errors"
	"github.com/vango-dev/hashnav/pkg/linkstore"
)

func linkCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Save and resolve shareable fragment links",
		Long: `Store a fragment under a generated ID, or look one up.

Links live in the store configured under "links" in hashnav.json.
The in-memory backend forgets everything when the command exits,
so these commands need the sqlite or s3 backend.

Examples:
  hashnav link save 'search/q=go' --config .
  hashnav link get 3f1c...`,
	}
	cmd.PersistentFlags().StringVarP(&configDir, "config", "c", "", "Directory containing hashnav.json or hashnav.yaml")

	openStore := func(ctx context.Context) (linkstore.Store, func() error, error) {
		cfg, err := loadConfig(configDir, "")
		if err != nil {
			return nil, nil, err
		}
		if cfg.Links.Backend == config.BackendMemory {
			return nil, nil, hnerrors.New("E400").
				WithField("links.backend").
				WithDetail("The memory backend does not outlive a single command.").
				WithSuggestion(`Set links.backend to "sqlite" or "s3", or use HASHNAV_LINKS_BACKEND=sqlite`)
		}
		return linkstore.Open(ctx, cfg.Links)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save <fragment>",
		Short: "Store a fragment and print its link ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			id, err := store.Save(cmd.Context(), args[0])
			if err != nil {
				return hnerrors.FromError(err, "E400")
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Print the fragment stored under a link ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			fragment, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return hnerrors.New("E401").WithField(args[0]).Wrap(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), fragment)
			return nil
		},
	})

	return cmd
}
