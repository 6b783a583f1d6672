package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"randoexport/internal/export"
	"randoexport/internal/persistence/profile"
)

var inspectFlags struct {
	find string
}

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Print a summary of an exported profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFlags.find, "find", "", "list the placements holding this item")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	h, p, err := profile.Read(path)
	if err != nil {
		return fmt.Errorf("read profile: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s v%d, %s\n", colorMuted.Sprint(path), h.Version, humanize.Bytes(uint64(fi.Size())))
	printSummary(out, path, p)

	if item := strings.TrimSpace(inspectFlags.find); item != "" {
		hits := 0
		for _, a := range p.Placements {
			for _, it := range a.Items {
				if it.Name != item {
					continue
				}
				hits++
				line := fmt.Sprintf("  #%d %s", it.Tag, colorValue.Sprint(a.Name))
				if c := a.ItemCost(it); !c.IsFree() {
					line += " " + colorMuted.Sprint("("+c.String()+")")
				}
				fmt.Fprintln(out, line)
			}
		}
		if hits == 0 {
			return fmt.Errorf("item %q is not placed in this profile", item)
		}
	}
	return nil
}

func printSummary(out io.Writer, path string, p *export.Profile) {
	sum := p.Summary()
	fmt.Fprintln(out, colorHeading.Sprint("export "+p.ID))
	row := func(label string, v any) {
		fmt.Fprintf(out, "  %-12s %s\n", label, colorValue.Sprint(fmt.Sprint(v)))
	}
	row("profile", path)
	row("seed", p.Seed)
	row("created", humanize.Time(p.CreatedAt))
	if p.Start != nil {
		row("start", p.Start.Name)
	}
	row("placements", humanize.Comma(int64(sum.Placements)))
	row("items", humanize.Comma(int64(sum.Items)))
	row("vendors", sum.Vendors)
	row("composites", sum.Composites)
	row("transitions", sum.Transitions)
	row("deployers", sum.Deployers)
	row("shop stock", p.ShopDefaults)
}
