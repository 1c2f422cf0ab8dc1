package filesystem

import (
	"fmt"
	"syscall"

	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// DiskUsageProbe implements secondary.DiskUsageProbe via statfs, measuring
// the used-percentage of the filesystem backing a path.
type DiskUsageProbe struct{}

// NewDiskUsageProbe creates a DiskUsageProbe.
func NewDiskUsageProbe() *DiskUsageProbe {
	return &DiskUsageProbe{}
}

// UsedPercent returns the integer percentage of blocks in use on the
// filesystem backing path, rounded down.
func (DiskUsageProbe) UsedPercent(path string) (int, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("failed to statfs %s: %w", path, err)
	}
	total := stat.Blocks
	if total == 0 {
		return 0, fmt.Errorf("statfs %s reported zero total blocks", path)
	}
	free := stat.Bfree
	used := total - free
	return int(used * 100 / total), nil
}

var _ secondary.DiskUsageProbe = DiskUsageProbe{}
