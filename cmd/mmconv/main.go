/* Convert between Lat/Lon, UTM, MGRS and the Myanmar grid */
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/htikelinn/mmgrid"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns 0 when every input converted, 1 when any did not and 2 on a
// usage error.
func run(args []string, stdout, stderr io.Writer) int {
	var flags = pflag.NewFlagSet("mmconv", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	var output = flags.StringP("output", "o", "text", "Output format: text, yaml or json.")
	var precision = flags.IntP("precision", "p", mmgrid.Precision1m, "Myanmar grid digits per axis derived from Lat/Lon: 3 (100 m) or 5 (1 m).")
	var datumShift = flags.String("datum-shift", "none", "Datum shift between Lat/Lon and the grid: none or legacy.")
	var configFile = flags.StringP("config", "c", "", "YAML config file. Flags override its settings.")
	var example = flags.StringP("example", "e", "", "Convert a preset input: latlon, mmutm or mgrs.")
	var verbose = flags.BoolP("verbose", "v", false, "Log each conversion.")
	var help = flags.Bool("help", false, "Display help text.")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Convert between Lat/Lon, UTM, MGRS and the Myanmar grid\n")
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "\tmmconv [options] coordinate...\n")
		fmt.Fprintf(stderr, "\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Examples:\n")
		fmt.Fprintf(stderr, "\tmmconv '16.8794118, 96.1420957'\n")
		fmt.Fprintf(stderr, "\tmmconv -p 3 JU958681 47QJU9549568421\n")
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *help {
		flags.Usage()
		return 0
	}

	var logger = log.NewWithOptions(stderr, log.Options{Prefix: "mmconv"})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	var cfg = defaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = loadConfig(*configFile)
		if err != nil {
			logger.Error("Could not load config", "file", *configFile, "err", err)
			return 2
		}
		logger.Debug("Loaded config", "file", *configFile, "precision", cfg.Precision, "output", cfg.Output)
	}
	if flags.Changed("output") {
		cfg.Output = *output
	}
	if flags.Changed("precision") {
		cfg.Precision = *precision
	}
	if flags.Changed("datum-shift") {
		var shift, err = mmgrid.ParseDatumShift(*datumShift)
		if err != nil {
			logger.Error("Invalid --datum-shift", "err", err)
			return 2
		}
		cfg.DatumShift.DatumShift = shift
	}

	var conv, convErr = mmgrid.NewConverter(mmgrid.Options{
		GridPrecision: cfg.Precision,
		DatumShift:    cfg.DatumShift.DatumShift,
	})
	if convErr != nil {
		logger.Error("Invalid options", "err", convErr)
		return 2
	}

	var printer, printErr = newPrinter(cfg.Output, stdout)
	if printErr != nil {
		logger.Error("Invalid output format", "err", printErr)
		return 2
	}

	var inputs = flags.Args()
	if *example != "" {
		var e, ok = mmgrid.LookupExample(*example)
		if !ok {
			logger.Error("Unknown example", "name", *example)
			return 2
		}
		inputs = append([]string{e.Input}, inputs...)
	}
	if len(inputs) == 0 {
		flags.Usage()
		return 2
	}

	var status = 0
	for _, in := range inputs {
		var res = conv.Convert(in)
		logger.Debug("Converted", "input", in, "format", res.InputFormat, "valid", res.Valid)
		if !res.Valid {
			status = 1
		}
		if err := printer.print(in, res); err != nil {
			logger.Error("Could not write result", "err", err)
			return 2
		}
	}
	return status
}

type printer struct {
	format string
	w      io.Writer
	count  int
}

func newPrinter(format string, w io.Writer) (*printer, error) {
	switch format {
	case "text", "yaml", "json":
		return &printer{format: format, w: w}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

func (p *printer) print(input string, res mmgrid.Result) error {
	defer func() { p.count++ }()

	switch p.format {
	case "yaml":
		if p.count > 0 {
			if _, err := fmt.Fprintln(p.w, "---"); err != nil {
				return err
			}
		}
		var enc = yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		var enc = json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if p.count > 0 {
		fmt.Fprintln(p.w)
	}
	return writeText(p.w, input, res)
}

func writeText(w io.Writer, input string, res mmgrid.Result) error {
	var lines = [][2]string{{"Input", fmt.Sprintf("%s (%s)", input, res.InputFormat)}}
	if !res.Valid {
		lines = append(lines, [2]string{"Error", res.Error})
	}
	if res.LatLon != nil {
		lines = append(lines,
			[2]string{"Lat/Lon", mmgrid.FormatLatLon(*res.LatLon)},
			[2]string{"DMS", mmgrid.ConvertDDToDMS(res.LatLon.Latitude, true) + ", " + mmgrid.ConvertDDToDMS(res.LatLon.Longitude, false)})
	}
	if res.UTM != nil {
		lines = append(lines, [2]string{"UTM", mmgrid.FormatUTMCoordinates(*res.UTM)})
	}
	if res.MMUTM != nil {
		lines = append(lines, [2]string{"MM_UTM", res.MMUTM.Formatted})
	}
	if res.MGRS != nil {
		lines = append(lines, [2]string{"MGRS", res.MGRS.Formatted})
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-9s %s\n", l[0]+":", l[1]); err != nil {
			return err
		}
	}
	return nil
}
