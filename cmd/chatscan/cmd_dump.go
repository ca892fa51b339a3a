package main

import (
	"fmt"

	"chatscan/process/memory_map"
	"chatscan/process_blob"

	"github.com/spf13/cobra"
)

var dumpOut string

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Save the scannable memory of the target to a directory",
	Long: `Writes every scan candidate region of the target to --out. The directory
can later replace a live process with --from for scan, regions and read.`,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpOut, "out", "o", "", "Output directory")
	_ = dumpCmd.MarkFlagRequired("out")
}

func runDump(cmd *cobra.Command, args []string) error {
	proc, err := opener().OpenProcessByName(cfg.ProcessName)
	if err != nil {
		return err
	}
	defer proc.Close()

	if err := process_blob.Save(proc, proc.GetPID(), cfg.ProcessName, dumpOut, memory_map.IsScanCandidate); err != nil {
		return err
	}
	fmt.Printf("Saved pid %d to %s\n", proc.GetPID(), dumpOut)
	return nil
}
