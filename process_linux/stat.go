//go:build linux

package process_linux

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// procStat is the part of /proc/[pid]/stat we care about
type procStat struct {
	Comm  string
	State byte
	PPID  int
}

// isDead reports zombie and dead states: the pid is still listed but the
// address space is gone
func (s procStat) isDead() bool {
	return s.State == 'Z' || s.State == 'X' || s.State == 'x'
}

// parseStat parses a /proc/[pid]/stat line. comm is wrapped in parentheses
// and may itself contain spaces and parentheses, so fields are counted from
// the last ')'.
func parseStat(data []byte) (procStat, error) {
	open := bytes.IndexByte(data, '(')
	closing := bytes.LastIndexByte(data, ')')
	if open < 0 || closing < open {
		return procStat{}, fmt.Errorf("invalid stat format")
	}

	fields := bytes.Fields(data[closing+1:])
	if len(fields) < 2 || len(fields[0]) != 1 {
		return procStat{}, fmt.Errorf("invalid stat format")
	}

	ppid, err := strconv.Atoi(string(fields[1]))
	if err != nil {
		return procStat{}, fmt.Errorf("invalid ppid: %w", err)
	}

	return procStat{
		Comm:  string(data[open+1 : closing]),
		State: fields[0][0],
		PPID:  ppid,
	}, nil
}

func readStat(root string, pid int) (procStat, error) {
	path := filepath.Join(root, strconv.Itoa(pid), "stat")
	data, err := os.ReadFile(path)
	if err != nil {
		return procStat{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parseStat(data)
}
