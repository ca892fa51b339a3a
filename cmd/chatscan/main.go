// Command chatscan finds a game's chat-display buffer in memory and follows it.
package main

import (
	"fmt"
	"os"

	"chatscan/config"

	"github.com/spf13/cobra"
	"github.com/ttacon/chalk"
)

var (
	configPath  string
	processName string
	pidFlag     int
	fromDir     string

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chatscan",
	Short: "Locate and follow a game's chat buffer in process memory",
	Long: `chatscan types random probe messages into a running game, scans the
game's memory for them and keeps the one address every probe shows up at.
Once resolved, the chat line at that address can be read and followed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if processName != "" {
			loaded.ProcessName = processName
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", configPath, err)
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "chatscan.yaml", "Path to the YAML config")
	rootCmd.PersistentFlags().StringVarP(&processName, "process", "p", "", "Target executable name (overrides process_name)")
	rootCmd.PersistentFlags().IntVar(&pidFlag, "pid", 0, "Attach to this process ID instead of looking it up by name")
	rootCmd.PersistentFlags().StringVar(&fromDir, "from", "", "Read from a memory dump directory instead of a live process")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(regionsCmd)
	rootCmd.AddCommand(dumpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, chalk.Red.Color("Error: "+err.Error()))
		os.Exit(1)
	}
}
