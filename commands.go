package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tournevent/aramex/pkg/shipper"
	"github.com/tournevent/aramex/pkg/shipper/aramex"
	"github.com/tournevent/aramex/pkg/wire"
	"go.uber.org/zap"
)

var (
	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Resolve configuration and every service descriptor, then exit",
		RunE:  runCheck,
	}

	countriesCmd = &cobra.Command{
		Use:   "countries [code]",
		Short: "List countries, or fetch one by ISO code",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCountries,
	}

	citiesCmd = &cobra.Command{
		Use:   "cities <country-code>",
		Short: "List the cities of a country",
		Args:  cobra.ExactArgs(1),
		RunE:  runCities,
	}

	trackCmd = &cobra.Command{
		Use:   "track <waybill>...",
		Short: "Track one or more shipments",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTrack,
	}

	rateCmd = &cobra.Command{
		Use:   "rate",
		Short: "Calculate a rate from a JSON request",
		RunE:  runRate,
	}

	pickupCmd = &cobra.Command{
		Use:   "pickup",
		Short: "Create a pickup from a JSON request",
		RunE:  runPickup,
	}

	shipmentCmd = &cobra.Command{
		Use:   "shipment",
		Short: "Create a shipment from a JSON request",
		RunE:  runShipment,
	}

	validateAddressCmd = &cobra.Command{
		Use:   "validate-address",
		Short: "Validate an address from a JSON request",
		RunE:  runValidateAddress,
	}
)

var (
	citiesState      string
	citiesStartsWith string
	trackLastOnly    bool
	inputFile        string
)

func init() {
	citiesCmd.Flags().StringVar(&citiesState, "state", "", "restrict to a state or province")
	citiesCmd.Flags().StringVar(&citiesStartsWith, "starts-with", "", "restrict to names starting with this prefix")
	trackCmd.Flags().BoolVar(&trackLastOnly, "last-only", false, "return only the latest update per shipment")

	for _, cmd := range []*cobra.Command{rateCmd, pickupCmd, shipmentCmd, validateAddressCmd} {
		cmd.Flags().StringVarP(&inputFile, "file", "f", "-", "JSON request file, - for stdin")
	}

	rootCmd.AddCommand(checkCmd, countriesCmd, citiesCmd, trackCmd,
		rateCmd, pickupCmd, shipmentCmd, validateAddressCmd)
}

// withClient builds an Aramex client from the environment, runs fn and prints
// its result as indented JSON.
func withClient(cmd *cobra.Command, fn func(context.Context, *aramex.Client) (wire.Node, error)) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := initAramex(cfg, logger, nil)
	if err != nil {
		return err
	}

	result, err := fn(ctx, client)
	if err != nil {
		logger.Ctx(ctx).Error("Command failed", zap.String("command", cmd.Name()), zap.Error(err))
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func readInput(cmd *cobra.Command, dst any) error {
	var r io.Reader = cmd.InOrStdin()
	if inputFile != "-" {
		f, err := os.Open(inputFile)
		if err != nil {
			return fmt.Errorf("opening request: %w", err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := initAramex(cfg, logger, nil)
	if err != nil {
		return err
	}
	if err := client.Preload(cmd.Context()); err != nil {
		return err
	}

	descriptors := aramex.NewDescriptorResolver(cfg.AramexDescriptorDir, client.Environment())
	for _, f := range aramex.Families {
		fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", f, descriptors.Path(f))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "environment %s ok\n", client.Environment())
	return nil
}

func runCountries(cmd *cobra.Command, args []string) error {
	return withClient(cmd, func(ctx context.Context, c *aramex.Client) (wire.Node, error) {
		if len(args) == 1 {
			return c.FetchCountry(ctx, args[0])
		}
		return c.FetchCountries(ctx)
	})
}

func runCities(cmd *cobra.Command, args []string) error {
	return withClient(cmd, func(ctx context.Context, c *aramex.Client) (wire.Node, error) {
		return c.FetchCities(ctx, &shipper.CitiesRequest{
			CountryCode:    args[0],
			State:          citiesState,
			NameStartsWith: citiesStartsWith,
		})
	})
}

func runTrack(cmd *cobra.Command, args []string) error {
	return withClient(cmd, func(ctx context.Context, c *aramex.Client) (wire.Node, error) {
		return c.Track(ctx, &shipper.TrackingRequest{Shipments: args, LastUpdateOnly: trackLastOnly})
	})
}

func runRate(cmd *cobra.Command, args []string) error {
	var req shipper.RateRequest
	if err := readInput(cmd, &req); err != nil {
		return err
	}
	return withClient(cmd, func(ctx context.Context, c *aramex.Client) (wire.Node, error) {
		return c.CalculateRate(ctx, &req)
	})
}

func runPickup(cmd *cobra.Command, args []string) error {
	var req shipper.Pickup
	if err := readInput(cmd, &req); err != nil {
		return err
	}
	return withClient(cmd, func(ctx context.Context, c *aramex.Client) (wire.Node, error) {
		return c.CreatePickup(ctx, &req)
	})
}

func runShipment(cmd *cobra.Command, args []string) error {
	var req shipper.Shipment
	if err := readInput(cmd, &req); err != nil {
		return err
	}
	return withClient(cmd, func(ctx context.Context, c *aramex.Client) (wire.Node, error) {
		return c.CreateShipment(ctx, &req)
	})
}

func runValidateAddress(cmd *cobra.Command, args []string) error {
	var req shipper.Address
	if err := readInput(cmd, &req); err != nil {
		return err
	}
	return withClient(cmd, func(ctx context.Context, c *aramex.Client) (wire.Node, error) {
		return c.ValidateAddress(ctx, &req)
	})
}
