package process_blob

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"chatscan/process"
	"chatscan/process/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

const (
	metadataFile  = "metadata.json"
	memoryMapFile = "process_memory_map.json"
)

type metadata struct {
	PID  process.ProcessID `json:"pid"`
	Name string            `json:"name"`
}

func blobName(region memory_map.MemoryMapItem) string {
	return fmt.Sprintf("blob_0x%x_%d.bin", region.Address, region.Size)
}

// Save writes every readable region accepted by filter to dirname, in the
// layout Load understands. Unreadable regions are skipped, not fatal.
func Save(src process.RegionSource, pid process.ProcessID, name, dirname string, filter func(memory_map.MemoryMapItem) bool) error {
	log := logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "dump"))
	log.Infoln("Saving process to directory:", dirname)

	if err := os.MkdirAll(dirname, 0o755); err != nil {
		return fmt.Errorf("failed to create dump directory: %w", err)
	}

	regions, err := src.Regions()
	if err != nil {
		return fmt.Errorf("failed to enumerate regions: %w", err)
	}

	var saved []memory_map.MemoryMapItem
	for _, region := range regions {
		if filter != nil && !filter(region) {
			continue
		}

		data := process.TryRead(src, process.ProcessMemoryAddress(region.Address), process.ProcessMemorySize(region.Size))
		if data == nil {
			log.Debugln("Failed to read memory region at", fmt.Sprintf("%x", region.Address))
			continue
		}

		if err := os.WriteFile(filepath.Join(dirname, blobName(region)), data, 0o644); err != nil {
			return fmt.Errorf("failed to write region 0x%x: %w", region.Address, err)
		}
		saved = append(saved, region)
	}

	if err := writeJSON(filepath.Join(dirname, memoryMapFile), saved); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dirname, metadataFile), metadata{PID: pid, Name: name}); err != nil {
		return err
	}

	log.Infoln("Process dump saved:", len(saved), "of", len(regions), "regions")
	return nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Load reads a dump written by Save into a Memory
func Load(dirname string) (*Memory, error) {
	metadataBytes, err := os.ReadFile(filepath.Join(dirname, metadataFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var meta metadata
	if err := json.Unmarshal(metadataBytes, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	mmBytes, err := os.ReadFile(filepath.Join(dirname, memoryMapFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read memory map: %w", err)
	}

	var regions []memory_map.MemoryMapItem
	if err := json.Unmarshal(mmBytes, &regions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal memory map: %w", err)
	}

	m := NewMemory(meta.PID)
	m.Name = meta.Name
	for _, region := range regions {
		data, err := os.ReadFile(filepath.Join(dirname, blobName(region)))
		if err != nil {
			return nil, fmt.Errorf("failed to read blob for region 0x%x: %w", region.Address, err)
		}
		m.AddRegion(region.Address, region.Perms, data)
	}

	return m, nil
}
