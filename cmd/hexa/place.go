package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/hexa/pkg/core"
)

var (
	placeItems []string
	quickTotal int64
)

// parseItem reads "Name=49.99".
func parseItem(s string) (core.LineItem, error) {
	name, price, ok := strings.Cut(s, "=")
	if !ok {
		return core.LineItem{}, fmt.Errorf("item %q: expected Name=price", s)
	}
	amount, err := core.ParseMoney(price)
	if err != nil {
		return core.LineItem{}, fmt.Errorf("item %q: %w", s, err)
	}
	return core.LineItem{Name: strings.TrimSpace(name), Price: amount}, nil
}

var placeCmd = &cobra.Command{
	Use:     "place",
	Short:   "Place an order: charge it, store it and announce it",
	Example: `  hexa place --item "Rust Book=49.99" --item "Keyboard=129.99"`,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		items := make([]core.LineItem, 0, len(placeItems))
		for _, raw := range placeItems {
			item, err := parseItem(raw)
			if err != nil {
				fatal("Error parsing item", err)
			}
			items = append(items, item)
		}

		inst := openInstance(cmd)
		defer inst.Close()

		order, err := inst.Service.PlaceOrder(cmd.Context(), items)
		if err != nil {
			fatal("Error placing order", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Success! Order %s placed. Total: %s\n", order.ID, order.Total)
	},
}

var quickCmd = &cobra.Command{
	Use:     "quick",
	Short:   "Process an order for a bare total in cents, without line items or payment",
	Example: `  hexa quick --total 4999`,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		inst := openInstance(cmd)
		defer inst.Close()

		order, err := inst.Service.ProcessOrder(cmd.Context(), core.Money(quickTotal))
		if err != nil {
			fatal("Error processing order", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Success! Order %s processed.\n", order.ID)
	},
}

func init() {
	rootCmd.AddCommand(placeCmd)
	rootCmd.AddCommand(quickCmd)
	placeCmd.Flags().StringArrayVarP(&placeItems, "item", "i", nil, `Line item as "Name=price" (repeatable)`)
	quickCmd.Flags().Int64VarP(&quickTotal, "total", "t", 0, "Order total in cents, e.g. 4999")
	_ = quickCmd.MarkFlagRequired("total")
}
