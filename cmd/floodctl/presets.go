package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"floodwatch/internal/risk"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in reading presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSCORE\tLEVEL\tVALUES")
			for _, p := range risk.Presets() {
				keys := make([]string, 0, len(p.Values))
				for k := range p.Values {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				pairs := make([]string, len(keys))
				for i, k := range keys {
					pairs[i] = k + "=" + formatValue(p.Values[k])
				}
				// scored over the defaults, as the simulation page does
				a := risk.Compute(p.Apply(risk.DefaultReading()))
				fmt.Fprintf(tw, "%s\t%.2f\t%s\t%s\n", p.Name, a.Score, a.Label, strings.Join(pairs, " "))
			}
			return tw.Flush()
		},
	}
}

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List reading fields with their domains and defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tALIAS\tUNIT\tMIN\tMAX\tDEFAULT\tSCORED")
			for _, f := range risk.Fields() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
					f.Key, f.Alias, f.Unit,
					formatValue(f.Min), formatValue(f.Max), formatValue(f.Default), f.Scored)
			}
			return tw.Flush()
		},
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
