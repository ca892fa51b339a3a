package main

import (
	"fmt"

	"chatscan/probe"
	"chatscan/process/memory_map"

	"github.com/spf13/cobra"
	"github.com/ttacon/chalk"
)

var regionsAll bool

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the memory regions a scan would cover",
	RunE:  runRegions,
}

func init() {
	regionsCmd.Flags().BoolVar(&regionsAll, "all", false, "Also list regions that are not scanned")
}

func runRegions(cmd *cobra.Command, args []string) error {
	proc, err := opener().OpenProcessByName(cfg.ProcessName)
	if err != nil {
		return err
	}
	defer proc.Close()

	regions, err := proc.Regions()
	if err != nil {
		return err
	}

	var scanned uint64
	var count int
	for _, region := range regions {
		candidate := memory_map.IsScanCandidate(region) &&
			(cfg.Scan.MaxRegionSize == 0 || region.Size <= cfg.Scan.MaxRegionSize)
		if candidate {
			scanned += uint64(region.Size)
			count++
			fmt.Println(chalk.Green.Color(region.String()))
		} else if regionsAll {
			fmt.Println(region.String())
		}
	}

	fmt.Printf("%d of %d regions, %d MiB scanned per round\n", count, len(regions), scanned>>20)

	if gen, err := cfg.NewProbeGenerator(); err == nil {
		bits := gen.EntropyBits()
		fmt.Printf("Probe entropy %.1f bits, chance of a false hit per round <= %.2g\n",
			bits, probe.FalseMatchBound(bits, scanned))
	}
	return nil
}
