package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"fleetflow/internal/api"
)

func (c *cli) statsCmd() *cobra.Command {
	var vehicleType string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard KPIs",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.api.DashboardStats(cmd.Context(), vehicleType)
			if err != nil {
				return err
			}
			return printTable(c.out, []string{"KPI", "VALUE"}, [][]string{
				{"Active fleet", strconv.Itoa(s.ActiveFleet)},
				{"Maintenance alerts", strconv.Itoa(s.MaintenanceAlerts)},
				{"Utilization", num(s.UtilizationRatePercent) + "%"},
				{"Pending cargo", strconv.Itoa(s.PendingCargo)},
			})
		},
	}
	cmd.Flags().StringVar(&vehicleType, "type", "", "only count Truck, Van or Bike")
	return cmd
}

func (c *cli) roiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roi",
		Short: "Show the fleet return on investment",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.api.ROI(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "ROI: %s%%\n", num(r.ROIPercentage))
			return nil
		},
	}
}

func (c *cli) fuelEfficiencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fuel-efficiency",
		Short: "Show the fleet km per liter",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.api.FuelEfficiency(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Fuel efficiency: %s km/L\n", num(e.KmPerLiter))
			return nil
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the CSV fleet report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "-" {
				return c.api.ExportReport(cmd.Context(), c.out)
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := c.api.ExportReport(cmd.Context(), f); err != nil {
				f.Close()
				_ = os.Remove(output)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Report written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", api.ReportFilename, "file to write, - for stdout")
	return cmd
}
