package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fleetflow/internal/api"
	"fleetflow/internal/console"
)

func (c *cli) board(ctx context.Context) (*console.Board, error) {
	board := console.NewBoard(c.api, console.SyncRefetch)
	if err := board.Refresh(ctx); err != nil {
		return nil, err
	}
	return board, nil
}

func (c *cli) printTrips(board *console.Board, search string) error {
	visible := map[string]bool{}
	for _, t := range console.FilterTrips(board.Trips(), search) {
		visible[t.ID] = true
	}

	var rows [][]string
	for _, r := range board.Rows() {
		if !visible[r.Trip.ID] {
			continue
		}
		rows = append(rows, []string{
			r.Trip.ID, r.Vehicle, r.Driver, num(r.Trip.CargoWeight),
			orDash(r.Trip.StartLocation), orDash(r.Trip.EndLocation), r.Trip.Status,
			optNum(r.Trip.FinalOdometer),
		})
	}
	return printTable(c.out,
		[]string{"ID", "VEHICLE", "DRIVER", "CARGO (t)", "ORIGIN", "DESTINATION", "STATUS", "FINAL ODOMETER"},
		rows)
}

func (c *cli) printTrip(board *console.Board, id string) {
	if t, ok := board.Trip(id); ok {
		fmt.Fprintf(c.out, "Trip %s is %s\n", t.ID, t.Status)
	}
}

func (c *cli) tripsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "trips", Short: "Draft, dispatch and close trips"}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List trips",
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := c.board(cmd.Context())
			if err != nil {
				return err
			}
			return c.printTrips(board, search)
		},
	}
	list.Flags().StringVar(&search, "search", "", "filter by origin, destination or trip id")

	var form console.TripForm
	create := &cobra.Command{
		Use:   "create",
		Short: "Draft a trip",
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := c.board(cmd.Context())
			if err != nil {
				return err
			}
			before := len(board.Trips())
			if _, err := board.CreateTrip(cmd.Context(), form); err != nil {
				return err
			}
			trips := board.Trips()
			if len(trips) > before {
				fmt.Fprintf(c.out, "Drafted trip %s\n", trips[len(trips)-1].ID)
			}
			return nil
		},
	}
	f := create.Flags()
	f.StringVar(&form.VehicleID, "vehicle", "", "vehicle id (must be Available)")
	f.StringVar(&form.DriverID, "driver", "", "driver id (must be On Duty)")
	f.StringVar(&form.CargoWeight, "cargo", "", "cargo weight in tons")
	f.StringVar(&form.StartLocation, "from", "", "origin")
	f.StringVar(&form.EndLocation, "to", "", "destination")

	choices := &cobra.Command{
		Use:   "choices",
		Short: "Show the vehicles and drivers a new trip can use",
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := c.board(cmd.Context())
			if err != nil {
				return err
			}
			if err := printTable(c.out, []string{"VEHICLE", "PLATE", "TYPE", "CAPACITY (t)"}, availableRows(board.AvailableVehicles())); err != nil {
				return err
			}
			fmt.Fprintln(c.out)
			var rows [][]string
			for _, d := range board.OnDutyDrivers() {
				rows = append(rows, []string{d.ID, d.Name, d.LicenseNumber})
			}
			return printTable(c.out, []string{"DRIVER", "NAME", "LICENSE"}, rows)
		},
	}

	dispatch := &cobra.Command{
		Use:   "dispatch TRIP_ID",
		Short: "Dispatch a Draft trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := c.board(cmd.Context())
			if err != nil {
				return err
			}
			if err := board.Dispatch(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.printTrip(board, args[0])
			return nil
		},
	}

	var odometer string
	complete := &cobra.Command{
		Use:   "complete TRIP_ID",
		Short: "Complete a Dispatched trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := c.board(cmd.Context())
			if err != nil {
				return err
			}
			if err := board.Complete(cmd.Context(), args[0], odometer); err != nil {
				return err
			}
			c.printTrip(board, args[0])
			return nil
		},
	}
	complete.Flags().StringVar(&odometer, "odometer", "", "final odometer reading in km")

	cancel := &cobra.Command{
		Use:   "cancel TRIP_ID",
		Short: "Cancel a Draft or Dispatched trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := c.board(cmd.Context())
			if err != nil {
				return err
			}
			if err := board.Cancel(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.printTrip(board, args[0])
			return nil
		},
	}

	history := &cobra.Command{
		Use:   "events TRIP_ID",
		Short: "Show the lifecycle events of a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			evts, err := c.api.TripEvents(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(evts))
			for _, e := range evts {
				rows = append(rows, []string{e.OccurredAt.Local().Format("2006-01-02 15:04:05"), string(e.Type), e.Message})
			}
			return printTable(c.out, []string{"TIME", "EVENT", "MESSAGE"}, rows)
		},
	}

	cmd.AddCommand(list, create, choices, dispatch, complete, cancel, history)
	return cmd
}

func availableRows(vehicles []api.Vehicle) [][]string {
	rows := make([][]string, 0, len(vehicles))
	for _, v := range vehicles {
		rows = append(rows, []string{v.ID, v.LicensePlate, v.Type, num(v.MaxCapacity)})
	}
	return rows
}
