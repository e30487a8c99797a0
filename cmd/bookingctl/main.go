// Package main provides bookingctl, a command line client for the room
// search and booking hand-off logic.  It talks to the room and content
// APIs directly, without the guest service in between.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/hospitality-booking/internal/booking"
	"github.com/iliyamo/hospitality-booking/internal/cache"
	"github.com/iliyamo/hospitality-booking/internal/content"
	"github.com/iliyamo/hospitality-booking/internal/logger"
	"github.com/iliyamo/hospitality-booking/internal/model"
	"github.com/iliyamo/hospitality-booking/internal/pagination"
	"github.com/iliyamo/hospitality-booking/internal/roomapi"
	"github.com/iliyamo/hospitality-booking/internal/search"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type criteriaFlags struct {
	location int64
	checkIn  string
	checkOut string
	adults   int
	children int
	rooms    int
}

func (f *criteriaFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.location, "location", 0, "Location id (0 = all locations)")
	cmd.Flags().StringVar(&f.checkIn, "check-in", "", "Arrival date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.checkOut, "check-out", "", "Departure date, YYYY-MM-DD")
	cmd.Flags().IntVar(&f.adults, "adults", model.DefaultAdults, "Adult guests")
	cmd.Flags().IntVar(&f.children, "children", model.DefaultChildren, "Child guests")
	cmd.Flags().IntVar(&f.rooms, "rooms", model.DefaultRooms, "Rooms")
}

func (f *criteriaFlags) criteria() (model.SearchCriteria, error) {
	c := model.SearchCriteria{
		Adults:   max(f.adults, model.MinAdults),
		Children: max(f.children, model.MinChildren),
		Rooms:    max(f.rooms, model.MinRooms),
	}
	if f.location != 0 {
		loc := f.location
		c.LocationID = &loc
	}
	if f.checkIn != "" {
		d, err := time.Parse(time.DateOnly, f.checkIn)
		if err != nil {
			return c, fmt.Errorf("--check-in: %w", err)
		}
		c.CheckIn = &d
	}
	if f.checkOut != "" {
		d, err := time.Parse(time.DateOnly, f.checkOut)
		if err != nil {
			return c, fmt.Errorf("--check-out: %w", err)
		}
		if c.CheckIn != nil && !d.After(*c.CheckIn) {
			return c, fmt.Errorf("--check-out must be after --check-in")
		}
		c.CheckOut = &d
	}
	return c, nil
}

func rootCmd() *cobra.Command {
	var (
		apiURL     string
		engineURL  string
		regCode    string
		outputJSON bool
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:          "bookingctl",
		Short:        "Search rooms and build booking deep-links",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&apiURL, "api", envOr("ROOM_API_BASE_URL", "http://localhost:8081"), "Room/content API base URL")
	cmd.PersistentFlags().StringVar(&engineURL, "engine", envOr("BOOKING_BASE_URL", "https://live.ipms247.com/booking/book-rooms-hospitality"), "Reservation engine base URL")
	cmd.PersistentFlags().StringVar(&regCode, "reg-code", os.Getenv("BOOKING_REG_CODE"), "Property registration code")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output JSON")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging to stderr")

	logFor := func(cmd *cobra.Command) *slog.Logger {
		level := "warn"
		if verbose {
			level = "debug"
		}
		return logger.New(logger.Options{Writer: cmd.ErrOrStderr(), Level: level})
	}

	cmd.AddCommand(searchCmd(&apiURL, &engineURL, &regCode, &outputJSON, logFor))
	cmd.AddCommand(deeplinkCmd(&engineURL, &regCode))
	cmd.AddCommand(heroCmd(&apiURL, &outputJSON, logFor))
	return cmd
}

func searchCmd(apiURL, engineURL, regCode *string, outputJSON *bool, logFor func(*cobra.Command) *slog.Logger) *cobra.Command {
	var (
		f       criteriaFlags
		page    int
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run one availability search and print a page of results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := f.criteria()
			if err != nil {
				return err
			}
			log := logFor(cmd)
			client, err := roomapi.NewClient(*apiURL, nil, log)
			if err != nil {
				return err
			}
			o := search.New(client, booking.NewDispatcher(*engineURL, *regCode), search.Options{Timeout: timeout, AutoDispatch: true, Logger: log})
			snap := o.Search(cmd.Context(), c)
			if snap.State == search.StateError {
				return fmt.Errorf("search failed: %s", snap.Err)
			}
			pager := pagination.NewPager(pagination.PageSize)
			pager.SetItems(snap.Items)
			pager.SetPage(page)
			return printSearch(cmd.OutOrStdout(), snap, pager.Page(), *outputJSON)
		},
	}
	f.register(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "Result page")
	cmd.Flags().DurationVar(&timeout, "timeout", search.DefaultTimeout, "Search timeout")
	return cmd
}

func printSearch(w io.Writer, snap search.Snapshot, page model.SearchResultPage, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			State  search.State           `json:"state"`
			Page   model.SearchResultPage `json:"page"`
			Intent *booking.Intent        `json:"intent,omitempty"`
		}{snap.State, page, snap.Intent})
	}
	if snap.State == search.StateEmpty {
		fmt.Fprintln(w, "No rooms available for these criteria.")
		return nil
	}
	fmt.Fprintf(w, "Page %d/%d (%d rooms)\n", page.PageNumber, page.TotalPages, page.TotalItems)
	for _, u := range page.Items {
		fmt.Fprintf(w, "  %-8s %-30s %10.2f  max %d\n", u.ID, u.Name, u.BasePrice, u.MaxOccupancy)
	}
	if snap.Intent != nil {
		fmt.Fprintf(w, "Only one room matched, booking target: %s\n", snap.Intent.Target())
	}
	return nil
}

func deeplinkCmd(engineURL, regCode *string) *cobra.Command {
	var f criteriaFlags
	cmd := &cobra.Command{
		Use:   "deeplink <room-id>",
		Short: "Print the booking target for a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.criteria()
			if err != nil {
				return err
			}
			in := booking.NewDispatcher(*engineURL, *regCode).Dispatch(model.BookableUnit{ID: args[0]}, c)
			fmt.Fprintln(cmd.OutOrStdout(), in.Target())
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func heroCmd(apiURL *string, outputJSON *bool, logFor func(*cobra.Command) *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "hero",
		Short: "List the active hero sections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logFor(cmd)
			client, err := roomapi.NewClient(*apiURL, nil, log)
			if err != nil {
				return err
			}
			store := cache.NewMemoryStore(10)
			defer store.Close()
			res, err := content.NewLoader(client, cache.New(store, cache.Options{Logger: log}), log).Hero(cmd.Context())
			if err != nil {
				return err
			}
			if *outputJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(res)
			}
			for _, s := range res.Sections {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-30s %s\n", s.DisplayOrder, s.Title, s.MediaURL)
			}
			return nil
		},
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
