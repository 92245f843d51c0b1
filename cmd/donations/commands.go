package main

import (
	"github.com/spf13/cobra"

	"donationtracker/internal/client"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List donations, newest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		list, err := api.List(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), list)
	},
}

var getCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show one donation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := api.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), d)
	},
}

// Create/update flags.
var (
	flagDonor    string
	flagType     string
	flagQuantity float64
	flagUnit     string
	flagDate     string
	flagNotes    string
)

func addDonationFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagDonor, "donor", "", "Donor name")
	cmd.Flags().StringVar(&flagType, "type", "", "Donation type (money, food, clothing, household_items, toys, books, other)")
	cmd.Flags().Float64Var(&flagQuantity, "quantity", 0, "Amount or item count")
	cmd.Flags().StringVar(&flagUnit, "unit", "", "Unit, e.g. dollars or items")
	cmd.Flags().StringVar(&flagDate, "date", "", "Donation date, e.g. 2024-01-15")
	cmd.Flags().StringVar(&flagNotes, "notes", "", "Free-form notes")
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a new donation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := api.Create(cmd.Context(), client.CreateRequest{
			DonorName: flagDonor,
			Type:      flagType,
			Quantity:  flagQuantity,
			Unit:      flagUnit,
			Date:      flagDate,
			Notes:     flagNotes,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), d)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change fields of a donation; only the given flags are sent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := api.Update(cmd.Context(), args[0], updateRequestFromFlags(cmd))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), d)
	},
}

func updateRequestFromFlags(cmd *cobra.Command) client.UpdateRequest {
	var req client.UpdateRequest
	flags := cmd.Flags()
	if flags.Changed("donor") {
		req.DonorName = &flagDonor
	}
	if flags.Changed("type") {
		req.Type = &flagType
	}
	if flags.Changed("quantity") {
		req.Quantity = &flagQuantity
	}
	if flags.Changed("unit") {
		req.Unit = &flagUnit
	}
	if flags.Changed("date") {
		req.Date = &flagDate
	}
	if flags.Changed("notes") {
		req.Notes = &flagNotes
	}
	return req
}

var deleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete a donation",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show donation totals and the most recent donations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		stats, err := api.Stats(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), stats)
	},
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the accepted donation types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		types, err := api.Types(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), types)
	},
}

func init() {
	addDonationFlags(createCmd)
	addDonationFlags(updateCmd)
	for _, name := range []string{"donor", "type", "quantity", "unit", "date"} {
		_ = createCmd.MarkFlagRequired(name)
	}

	rootCmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd, statsCmd, typesCmd)
}
