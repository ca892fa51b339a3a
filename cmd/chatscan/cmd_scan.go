package main

import (
	"fmt"

	"chatscan/hexdump"
	"chatscan/process"
	"chatscan/scan"
	"chatscan/textenc"

	"github.com/spf13/cobra"
	"github.com/ttacon/chalk"
)

var (
	scanText     string
	scanAOB      string
	scanContext  uint
	scanMaxShown int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List every address holding a string or byte pattern",
	Long: `Scans every committed read/write region of the target for --text encoded
with --encoding, or for an --aob byte pattern where ?? matches any byte, and
prints a hex dump around each hit.

Examples:
  chatscan scan --text "gg wp" --encoding utf-16-le
  chatscan scan --aob "67 00 67 00 ?? 00 77 00"`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanText, "text", "", "Text to search for")
	scanCmd.Flags().StringVar(&encodingFlag, "encoding", "utf-8", "Encoding used for --text")
	scanCmd.Flags().StringVar(&scanAOB, "aob", "", "Byte pattern, e.g. '48 65 ?? 6c'")
	scanCmd.Flags().UintVar(&scanContext, "context", 32, "Bytes of hex dump around each hit (0 disables)")
	scanCmd.Flags().IntVar(&scanMaxShown, "max-hits", 20, "Maximum hits to dump")
	scanCmd.MarkFlagsMutuallyExclusive("text", "aob")
	scanCmd.MarkFlagsOneRequired("text", "aob")
}

func scanPattern() (process.AOB, error) {
	if scanAOB != "" {
		return scan.ParseAOB(scanAOB)
	}

	profile, ok := textenc.Lookup(encodingFlag)
	if !ok {
		return process.AOB{}, fmt.Errorf("unknown encoding %q", encodingFlag)
	}
	pattern, err := profile.Encode(scanText)
	if err != nil {
		return process.AOB{}, err
	}
	return process.NewAOB(pattern, nil)
}

func runScan(cmd *cobra.Command, args []string) error {
	aob, err := scanPattern()
	if err != nil {
		return err
	}

	proc, err := opener().OpenProcessByName(cfg.ProcessName)
	if err != nil {
		return err
	}
	defer proc.Close()

	fmt.Printf("Scanning pid %d for %s\n", proc.GetPID(), scan.FormatAOB(aob))

	hits, err := newScanner().ScanAOB(proc, aob)
	if err != nil {
		return err
	}
	fmt.Printf("Found %s\n", chalk.Green.Color(fmt.Sprintf("%d matches", len(hits))))

	options := hexdump.DefaultOptions()
	if aob.IsExact() {
		options.HighlightPattern = aob.Pattern
	}

	for i, hit := range hits {
		fmt.Println(chalk.Yellow.Color(hit.ToString()))
		if scanContext == 0 || i >= scanMaxShown {
			continue
		}

		data, start := hexdump.Around(proc, hit, uint(len(aob.Pattern)), scanContext)
		if data == nil {
			fmt.Println("  (unreadable)")
			continue
		}
		options.StartOffset = uint64(start)
		hexdump.DumpToWriter(cmd.OutOrStdout(), data, options)
	}

	return nil
}
