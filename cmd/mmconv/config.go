package main

import (
	"fmt"
	"os"

	"github.com/htikelinn/mmgrid"
	"gopkg.in/yaml.v3"
)

// config is the YAML config file read with --config.
//
//	precision: 3
//	datum_shift: legacy       # or none, or {lat: 0.0028651, lon: -0.0038338}
//	output: yaml
type config struct {
	Precision  int             `yaml:"precision"`
	DatumShift datumShiftValue `yaml:"datum_shift"`
	Output     string          `yaml:"output"`
}

func defaultConfig() config {
	var opts = mmgrid.DefaultOptions()
	return config{
		Precision:  opts.GridPrecision,
		DatumShift: datumShiftValue{opts.DatumShift},
		Output:     "text",
	}
}

// datumShiftValue accepts either a named shift or an explicit lat/lon pair.
type datumShiftValue struct {
	mmgrid.DatumShift
}

func (d *datumShiftValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var shift, err = mmgrid.ParseDatumShift(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		d.DatumShift = shift
		return nil
	case yaml.MappingNode:
		return node.Decode(&d.DatumShift)
	}
	return fmt.Errorf("line %d: datum_shift must be a name or a {lat, lon} mapping", node.Line)
}

// loadConfig reads path over the defaults. Keys missing from the file keep
// their default values.
func loadConfig(path string) (config, error) {
	var data, readErr = os.ReadFile(path)
	if readErr != nil {
		return config{}, readErr
	}

	var cfg = defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
