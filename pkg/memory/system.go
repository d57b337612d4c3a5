package memory

import (
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/ajitpratap0/orcvector/pkg/errors"
)

// SystemLimit returns percent of the host's physical memory in bytes, for use
// as Config.LimitBytes.
func SystemLimit(percent float64) (int64, error) {
	if percent <= 0 || percent > 100 {
		return 0, errors.New(errors.ErrorTypeValidation, "memory percent must be in (0, 100]").
			WithDetail("percent", percent)
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeResource, "failed to read system memory")
	}
	return int64(float64(vm.Total) * percent / 100), nil
}
