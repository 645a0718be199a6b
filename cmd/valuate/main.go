package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"esklenchen/server/config"
	"esklenchen/server/internal/geometry"
	"esklenchen/server/internal/valuation"
)

var (
	version = "v0.0.1-default"

	surfaceFlag = &cli.Float64Flag{
		Name:  "surface",
		Usage: fmt.Sprintf("Surface in square meters (default: %g)", valuation.DefaultSurface),
	}
	roomsFlag = &cli.IntFlag{
		Name:  "rooms",
		Usage: fmt.Sprintf("Number of rooms (default: %d)", valuation.DefaultRooms),
	}
	bathroomsFlag = &cli.IntFlag{
		Name:  "bathrooms",
		Usage: fmt.Sprintf("Number of bathrooms (default: %d)", valuation.DefaultBathrooms),
	}
	locationFlag = &cli.StringFlag{
		Name:  "location",
		Usage: fmt.Sprintf("Market area, one of %v (default: %s)", valuation.Locations(), valuation.DefaultLocation),
	}
	typeFlag = &cli.StringFlag{
		Name:  "type",
		Usage: "Property type: Flat, House, Penthouse, Duplex or Studio",
	}
	yearBuiltFlag = &cli.IntFlag{
		Name:  "year-built",
		Usage: "Construction year (default: ten years ago)",
	}
	conditionFlag = &cli.StringFlag{
		Name:  "condition",
		Usage: "Condition: Excellent, Good, Fair or NeedsRenovation",
	}
	latFlag = &cli.Float64Flag{
		Name:  "lat",
		Usage: "Latitude, used to pick the market area when --location is empty",
	}
	lngFlag = &cli.Float64Flag{
		Name:  "lng",
		Usage: "Longitude, used to pick the market area when --location is empty",
	}
	areasFlag = &cli.StringFlag{
		Name:    "areas",
		Usage:   "Path to a YAML market area file (optional)",
		EnvVars: []string{"MARKET_AREAS_PATH"},
	}
	seedFlag = &cli.Uint64Flag{
		Name:  "seed",
		Usage: "Seed for a reproducible estimate (optional)",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	if err := newApp(os.Stdout, time.Now).Run(os.Args); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func newApp(out io.Writer, now func() time.Time) *cli.App {
	return &cli.App{
		Name:    "valuate",
		Version: version,
		Usage:   "Estimate the market value of a property",
		Flags: []cli.Flag{
			surfaceFlag,
			roomsFlag,
			bathroomsFlag,
			locationFlag,
			typeFlag,
			yearBuiltFlag,
			conditionFlag,
			latFlag,
			lngFlag,
			areasFlag,
			seedFlag,
			debugFlag,
		},
		Before: func(c *cli.Context) error {
			if c.Bool(debugFlag.Name) {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			return valuate(c, out, now)
		},
	}
}

func valuate(c *cli.Context, out io.Writer, now func() time.Time) error {
	areas, err := config.LoadMarketAreas(c.String(areasFlag.Name))
	if err != nil {
		return err
	}
	locator, err := geometry.NewMarketLocator(areas, log.StandardLogger())
	if err != nil {
		return err
	}

	property, err := valuation.ParseRequest(requestFromFlags(c), now(), locator)
	if err != nil {
		return err
	}
	log.Debugf("property: %+v", property)

	src := valuation.GlobalSource()
	if c.IsSet(seedFlag.Name) {
		src = valuation.NewSource(c.Uint64(seedFlag.Name))
	}
	result := valuation.NewScorer(src, now).Estimate(property)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func requestFromFlags(c *cli.Context) valuation.AnalysisRequest {
	req := valuation.AnalysisRequest{
		Location:     c.String(locationFlag.Name),
		PropertyType: c.String(typeFlag.Name),
		Condition:    c.String(conditionFlag.Name),
	}
	if c.IsSet(surfaceFlag.Name) {
		req.Surface = valuation.NumberOf(c.Float64(surfaceFlag.Name))
	}
	if c.IsSet(roomsFlag.Name) {
		req.Rooms = valuation.NumberOf(float64(c.Int(roomsFlag.Name)))
	}
	if c.IsSet(bathroomsFlag.Name) {
		req.Bathrooms = valuation.NumberOf(float64(c.Int(bathroomsFlag.Name)))
	}
	if c.IsSet(yearBuiltFlag.Name) {
		req.YearBuilt = valuation.NumberOf(float64(c.Int(yearBuiltFlag.Name)))
	}
	if c.IsSet(latFlag.Name) && c.IsSet(lngFlag.Name) {
		lat, lng := c.Float64(latFlag.Name), c.Float64(lngFlag.Name)
		req.Latitude, req.Longitude = &lat, &lng
	}
	return req
}
