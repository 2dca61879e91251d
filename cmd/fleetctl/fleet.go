package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fleetflow/internal/api"
	"fleetflow/internal/console"
)

func vehicleRows(vehicles []api.Vehicle) [][]string {
	rows := make([][]string, 0, len(vehicles))
	for _, v := range vehicles {
		rows = append(rows, []string{
			v.ID, v.LicensePlate, v.Name, v.Type, num(v.MaxCapacity), num(v.Odometer), v.Status,
		})
	}
	return rows
}

func (c *cli) vehiclesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "vehicles", Short: "Manage the vehicle registry"}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List vehicles",
		RunE: func(cmd *cobra.Command, args []string) error {
			page := console.NewVehiclePage(c.api.ListVehicles)
			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			return printTable(c.out,
				[]string{"ID", "PLATE", "NAME", "TYPE", "CAPACITY (t)", "ODOMETER", "STATUS"},
				vehicleRows(page.Filter(search)))
		},
	}
	list.Flags().StringVar(&search, "search", "", "filter by plate, name, make or model")

	var form console.VehicleForm
	create := &cobra.Command{
		Use:   "create",
		Short: "Register a vehicle",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := form.Payload()
			if err != nil {
				return err
			}
			v, err := c.api.CreateVehicle(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Created vehicle %s (%s)\n", v.LicensePlate, v.ID)
			return nil
		},
	}
	f := create.Flags()
	f.StringVar(&form.LicensePlate, "plate", "", "license plate")
	f.StringVar(&form.Name, "name", "", "display name")
	f.StringVar(&form.Type, "type", "", "Truck, Van or Bike")
	f.StringVar(&form.MaxCapacity, "capacity", "", "max cargo capacity in tons")
	f.StringVar(&form.Make, "make", "", "make")
	f.StringVar(&form.Model, "model", "", "model")
	f.StringVar(&form.Year, "year", "", "model year")
	f.StringVar(&form.FuelType, "fuel", "", "Petrol, Diesel or Electric")
	f.StringVar(&form.Odometer, "odometer", "", "current odometer in km")
	f.StringVar(&form.PurchasePrice, "purchase-price", "", "purchase price")
	f.StringVar(&form.CurrentValue, "current-value", "", "current value")

	toggle := &cobra.Command{
		Use:   "out-of-service VEHICLE_ID",
		Short: "Toggle a vehicle between Available and Out of Service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.api.ToggleOutOfService(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Vehicle %s is now %s\n", v.LicensePlate, v.Status)
			return nil
		},
	}

	cmd.AddCommand(list, create, toggle)
	return cmd
}

func driverRows(drivers []api.Driver) [][]string {
	rows := make([][]string, 0, len(drivers))
	for _, d := range drivers {
		rows = append(rows, []string{
			d.ID, d.Name, d.LicenseNumber, d.LicenseExpiryDate,
			num(d.PerformanceScore), num(d.TripCompletionRate) + "%", d.Status,
		})
	}
	return rows
}

func (c *cli) driversCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "drivers", Short: "Manage drivers"}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List drivers",
		RunE: func(cmd *cobra.Command, args []string) error {
			page := console.NewDriverPage(c.api.ListDrivers)
			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			return printTable(c.out,
				[]string{"ID", "NAME", "LICENSE", "EXPIRES", "SCORE", "COMPLETION", "STATUS"},
				driverRows(page.Filter(search)))
		},
	}
	list.Flags().StringVar(&search, "search", "", "filter by name or license number")

	var form console.DriverForm
	create := &cobra.Command{
		Use:   "create",
		Short: "Register a driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := form.Payload()
			if err != nil {
				return err
			}
			d, err := c.api.CreateDriver(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Created driver %s (%s), status %s\n", d.Name, d.ID, d.Status)
			return nil
		},
	}
	f := create.Flags()
	f.StringVar(&form.Name, "name", "", "full name")
	f.StringVar(&form.LicenseNumber, "license", "", "license number")
	f.StringVar(&form.LicenseCategory, "category", "", "license category")
	f.StringVar(&form.LicenseExpiryDate, "expires", "", "license expiry date (YYYY-MM-DD)")
	f.StringVar(&form.Status, "status", "", "initial status")

	status := &cobra.Command{
		Use:   "status DRIVER_ID STATUS",
		Short: "Set a driver's duty status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.api.UpdateDriverStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Driver %s is now %s\n", d.Name, d.Status)
			return nil
		},
	}

	sync := &cobra.Command{
		Use:   "sync-licenses",
		Short: "Suspend drivers with expired licenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.api.SyncExpiredLicenses(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, resp.Message)
			return nil
		},
	}

	cmd.AddCommand(list, create, status, sync)
	return cmd
}
