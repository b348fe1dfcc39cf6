package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"floodwatch/internal/risk"
)

// addFieldFlags registers one float flag per field, named by its alias.
func addFieldFlags(fs *pflag.FlagSet) {
	for _, f := range risk.Fields() {
		usage := f.Label
		if f.Unit != "" {
			usage += " (" + f.Unit + ")"
		}
		fs.String(f.Alias, "", fmt.Sprintf("%s, %g to %g", usage, f.Min, f.Max))
	}
}

// readingInput builds the submitted reading in layers: field defaults when
// withDefaults is set, then the named preset, then every field flag given on
// the command line. Without defaults, unset fields stay absent and the input
// policy decides what happens to them.
func readingInput(cmd *cobra.Command, preset string, withDefaults bool) (risk.Input, error) {
	values := url.Values{}
	if withDefaults {
		for _, f := range risk.Fields() {
			values.Set(f.Key, formatValue(f.Default))
		}
	}
	if preset != "" {
		p, ok := risk.LookupPreset(preset)
		if !ok {
			return risk.Input{}, fmt.Errorf("unknown preset %q", preset)
		}
		for k, v := range p.Values {
			values.Set(k, formatValue(v))
		}
	}
	for _, f := range risk.Fields() {
		flag := cmd.Flags().Lookup(f.Alias)
		if flag == nil || !flag.Changed {
			continue
		}
		values.Set(f.Key, flag.Value.String())
	}
	return risk.ParseForm(values), nil
}

func printValidation(cmd *cobra.Command, err error) {
	for _, ve := range risk.ValidationErrors(err) {
		cmd.PrintErrln("  " + ve.Error())
	}
}
