package cli

import (
	"fmt"

	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newInstantiateCmd(a *app) *cobra.Command {
	var (
		account string
		index   int
	)

	cmd := &cobra.Command{
		Use:   "instantiate",
		Short: "Instantiate a new oracle",
		Long: `Instantiate a new oracle component from the configured package. The admin
badges are deposited into the selected account, which becomes the admin
account for price updates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			acc, err := resolveAccount(ctx, svc, account, index)
			if err != nil {
				return err
			}
			snap, err := svc.Instantiate(ctx, acc)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), snap)
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "admin account address")
	cmd.Flags().IntVar(&index, "account-index", 0, "admin account appearance id, used when --account is empty")
	return cmd
}

// priceFlags select the pair. Empty values take the session defaults.
type priceFlags struct {
	attachFlags
	base  string
	quote string
}

func (f *priceFlags) register(cmd *cobra.Command) {
	f.attachFlags.register(cmd)
	cmd.Flags().StringVar(&f.base, "base", "", "base resource address (default: XRD)")
	cmd.Flags().StringVar(&f.quote, "quote", "", "quote resource address (default: admin badge)")
}

func (f *priceFlags) query() oracle.PriceQuery {
	return oracle.PriceQuery{Base: f.base, Quote: f.quote}
}

// priceOutput is printed by the price commands.
type priceOutput struct {
	Base    string             `json:"base"`
	Quote   string             `json:"quote"`
	Price   oracle.PriceResult `json:"price"`
	Message string             `json:"message,omitempty"`
}

func newPriceOutput(svc *oracle.Service, q oracle.PriceQuery, r oracle.PriceResult) priceOutput {
	q = q.WithDefaults(svc.Config().XRDAddress, svc.Session().Snapshot())
	out := priceOutput{Base: q.Base, Quote: q.Quote, Price: r}
	if !r.IsAvailable() {
		out.Message = oracle.NoPriceMessage
	}
	return out
}

func newPriceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Read or update oracle prices",
	}
	cmd.AddCommand(newPriceGetCmd(a), newPriceUpdateCmd(a))
	return cmd
}

func newPriceGetCmd(a *app) *cobra.Command {
	var flags priceFlags

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Read the price of a pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := flags.attach(ctx, svc); err != nil {
				return err
			}

			result, err := svc.GetPrice(ctx, flags.query())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), newPriceOutput(svc, flags.query(), result))
		},
	}

	flags.register(cmd)
	return cmd
}

func newPriceUpdateCmd(a *app) *cobra.Command {
	var flags priceFlags

	cmd := &cobra.Command{
		Use:   "update <price>",
		Short: "Set the price of a pair",
		Long: `Set the price of a pair. The admin account proves ownership of the admin
badge in the same transaction. The oracle also stores the inverse price for
the reversed pair.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", args[0], err)
			}

			svc, err := a.newService()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := flags.attach(ctx, svc); err != nil {
				return err
			}

			if err := svc.UpdatePrice(ctx, flags.query(), price); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), newPriceOutput(svc, flags.query(), oracle.Available(price)))
		},
	}

	flags.register(cmd)
	return cmd
}

func newAccountsCmd(a *app) *cobra.Command {
	var persona bool

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts shared by the wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			accounts, err := svc.Accounts(ctx)
			if err != nil {
				return err
			}
			out := map[string]interface{}{"accounts": accounts}
			if persona {
				p, err := svc.Persona(ctx)
				if err != nil {
					return err
				}
				out["persona"] = p
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().BoolVar(&persona, "persona", false, "include the logged in persona")
	return cmd
}
