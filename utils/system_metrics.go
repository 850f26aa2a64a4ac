package utils

import (
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/daybook-app/daybook/logger"
)

// GetCPUUsage returns the current CPU usage as a percentage
func GetCPUUsage() float64 {
	percentage, err := cpu.Percent(time.Second, false)
	if err != nil {
		logger.Warn("reading cpu usage failed", "error", err)
		return 0
	}
	if len(percentage) > 0 {
		return percentage[0]
	}
	return 0
}

// GetMemoryUsage returns the used memory percentage and megabytes
func GetMemoryUsage() (float64, float64) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		logger.Warn("reading memory usage failed", "error", err)
		return 0, 0
	}
	return vm.UsedPercent, float64(vm.Used) / 1024 / 1024
}
