package main

import (
	"fmt"
	"strconv"
	"strings"

	"chatscan/process"
	"chatscan/resolver"
	"chatscan/textenc"

	"github.com/spf13/cobra"
)

var (
	addressFlag  string
	encodingFlag string
	maxBytesFlag int
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the text at an address",
	Long: `Reads a zero-terminated string at --address. Characters are read one at
a time in the width of --encoding, up to --max-bytes bytes. Unknown encodings
are read as UTF-8 and invalid bytes are replaced.`,
	RunE: runRead,
}

func init() {
	readCmd.Flags().StringVar(&addressFlag, "address", "", "Address to read, e.g. 0x1A2B3C40")
	readCmd.Flags().StringVar(&encodingFlag, "encoding", "utf-8", "Text encoding")
	readCmd.Flags().IntVar(&maxBytesFlag, "max-bytes", 0, "Maximum bytes to read (default poll.max_bytes)")
	_ = readCmd.MarkFlagRequired("address")
}

// parseLocation accepts hex (0x-prefixed) or decimal addresses
func parseLocation(address, encoding string) (resolver.Location, error) {
	addr, err := strconv.ParseUint(strings.TrimSpace(address), 0, 64)
	if err != nil {
		return resolver.Location{}, fmt.Errorf("invalid address %q: %w", address, err)
	}

	profile, ok := textenc.Lookup(encoding)
	if !ok {
		fmt.Printf("Unknown encoding %q, reading as utf-8\n", encoding)
		profile = textenc.UTF8
	}
	return resolver.Location{Address: process.ProcessMemoryAddress(addr), Encoding: profile}, nil
}

func runRead(cmd *cobra.Command, args []string) error {
	loc, err := parseLocation(addressFlag, encodingFlag)
	if err != nil {
		return err
	}

	sess, err := newSession(nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.SetLocation(loc); err != nil {
		return err
	}

	maxBytes := cfg.Poll.MaxBytes
	if maxBytesFlag > 0 {
		maxBytes = maxBytesFlag
	}

	text, ok := sess.ReadCurrentText(maxBytes)
	if !ok {
		return fmt.Errorf("nothing readable at %s", loc.Address.ToString())
	}
	fmt.Println(text)
	return nil
}
