package cli

import (
	"context"
	"fmt"

	"mystery_boxes/internal/usecase"
	"mystery_boxes/internal/usecase/interfaces"

	"github.com/spf13/cobra"
)

type seedOptions struct {
	PriceUSD float64
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert boxes A-Z and the initial price",
		Long: `Insert the 26 boxes as available and set price_usd when it is not
configured yet. Existing rows are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), rootOpts, opts, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.PriceUSD, "price", 5, "initial price per box in USD")

	return cmd
}

func runSeed(ctx context.Context, rootOpts *RootOptions, opts *seedOptions, cmd *cobra.Command) error {
	cfg, log, err := rootOpts.load()
	if err != nil {
		return err
	}
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	created, err := usecase.NewBoxUseCase(st.boxes, st.settings, interfaces.SystemClock(), log).Seed(ctx, opts.PriceUSD)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d boxes\n", created)
	return nil
}
