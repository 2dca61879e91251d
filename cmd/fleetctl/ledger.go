package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fleetflow/internal/api"
	"fleetflow/internal/console"
)

func (c *cli) maintenanceCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "maintenance", Short: "Track service visits"}
	page := console.NewMaintenancePage(func(ctx context.Context) ([]api.MaintenanceLog, error) {
		return c.api.ListMaintenance(ctx)
	})

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List service logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			return c.printMaintenance(page.Filter(search))
		},
	}
	list.Flags().StringVar(&search, "search", "", "filter by service type or description")

	var form console.MaintenanceForm
	create := &cobra.Command{
		Use:   "create",
		Short: "Open a service log",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := form.Payload()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.errOut, form.Notice())

			var created api.MaintenanceLog
			err = page.Submit(cmd.Context(), func(ctx context.Context) (err error) {
				created, err = c.api.CreateMaintenance(ctx, req)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Opened service log %s\n", created.ID)
			return c.printMaintenance(page.Items())
		},
	}
	f := create.Flags()
	f.StringVar(&form.VehicleID, "vehicle", "", "vehicle id")
	f.StringVar(&form.ServiceType, "service", "", "service type")
	f.StringVar(&form.Description, "description", "", "description")
	f.StringVar(&form.Cost, "cost", "", "cost")
	f.StringVar(&form.Date, "date", "", "service date (YYYY-MM-DD)")

	complete := &cobra.Command{
		Use:   "complete LOG_ID",
		Short: "Close a service log and return the vehicle to Available",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := c.api.CompleteMaintenance(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Service log %s completed\n", entry.ID)
			return nil
		},
	}

	cmd.AddCommand(list, create, complete)
	return cmd
}

func (c *cli) printMaintenance(logs []api.MaintenanceLog) error {
	rows := make([][]string, 0, len(logs))
	for _, m := range logs {
		state := "Open"
		if m.CompletedAt != nil {
			state = "Completed"
		}
		rows = append(rows, []string{m.ID, m.VehicleID, m.ServiceType, orDash(m.Description), num(m.Cost), m.Date, state})
	}
	return printTable(c.out, []string{"ID", "VEHICLE", "SERVICE", "DESCRIPTION", "COST", "DATE", "STATE"}, rows)
}

func (c *cli) expensesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "expenses", Short: "Log operational expenses"}
	page := console.NewExpensePage(func(ctx context.Context) ([]api.Expense, error) {
		return c.api.ListExpenses(ctx)
	})

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			return c.printExpenses(page.Filter(search))
		},
	}
	list.Flags().StringVar(&search, "search", "", "filter by expense type")

	var form console.ExpenseForm
	create := &cobra.Command{
		Use:   "create",
		Short: "Log an expense",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := form.Payload()
			if err != nil {
				return err
			}
			err = page.Submit(cmd.Context(), func(ctx context.Context) error {
				_, err := c.api.CreateExpense(ctx, req)
				return err
			})
			if err != nil {
				return err
			}
			return c.printExpenses(page.Items())
		},
	}
	f := create.Flags()
	f.StringVar(&form.VehicleID, "vehicle", "", "vehicle id")
	f.StringVar(&form.TripID, "trip", "", "trip id")
	f.StringVar(&form.ExpenseType, "type", "", "expense type, e.g. Toll")
	f.StringVar(&form.Cost, "cost", "", "cost")
	f.StringVar(&form.Date, "date", "", "date (YYYY-MM-DD)")

	cmd.AddCommand(list, create)
	return cmd
}

func (c *cli) printExpenses(expenses []api.Expense) error {
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{e.ID, e.VehicleID, orDash(e.TripID), e.ExpenseType, num(e.Cost), e.Date})
	}
	return printTable(c.out, []string{"ID", "VEHICLE", "TRIP", "TYPE", "COST", "DATE"}, rows)
}

func (c *cli) fuelCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "fuel", Short: "Log refuelling"}
	page := console.NewFuelPage(func(ctx context.Context) ([]api.FuelLog, error) {
		return c.api.ListFuelLogs(ctx)
	})

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List fuel logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			return c.printFuel(page.Filter(search))
		},
	}
	list.Flags().StringVar(&search, "search", "", "filter by fuel type")

	var form console.FuelForm
	create := &cobra.Command{
		Use:   "create",
		Short: "Log a refuelling",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := form.Payload()
			if err != nil {
				return err
			}
			err = page.Submit(cmd.Context(), func(ctx context.Context) error {
				_, err := c.api.CreateFuelLog(ctx, req)
				return err
			})
			if err != nil {
				return err
			}
			return c.printFuel(page.Items())
		},
	}
	f := create.Flags()
	f.StringVar(&form.VehicleID, "vehicle", "", "vehicle id")
	f.StringVar(&form.FuelType, "type", "", "fuel type")
	f.StringVar(&form.QuantityLiters, "liters", "", "quantity in liters")
	f.StringVar(&form.TotalCost, "cost", "", "total cost")
	f.StringVar(&form.Date, "date", "", "date (YYYY-MM-DD)")
	f.StringVar(&form.OdometerReading, "odometer", "", "odometer reading in km")

	cmd.AddCommand(list, create)
	return cmd
}

func (c *cli) printFuel(logs []api.FuelLog) error {
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{
			l.ID, l.VehicleID, orDash(l.FuelType), num(l.QuantityLiters), num(l.TotalCost), l.Date, optNum(l.OdometerReading),
		})
	}
	return printTable(c.out, []string{"ID", "VEHICLE", "FUEL", "LITERS", "COST", "DATE", "ODOMETER"}, rows)
}
