package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// bytes one render worker holds per frame: the surface, the PNG encoder
// buffers and the encoded output are roughly three frames' worth.
const workerFrameCopies = 3

// RecommendedWorkers sizes the frame render pool from the number of
// logical CPUs and the memory currently available, leaving half of it free.
func RecommendedWorkers(width, height int) int {
	cpus, err := cpu.Counts(true)
	if err != nil || cpus <= 0 {
		cpus = runtime.NumCPU()
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return cpus
	}
	return workersFor(cpus, vm.Available, width, height)
}

func workersFor(cpus int, available uint64, width, height int) int {
	perWorker := uint64(width) * uint64(height) * 4 * workerFrameCopies
	if perWorker == 0 {
		return max(cpus, 1)
	}
	byMemory := int((available / 2) / perWorker)
	n := min(cpus, byMemory)
	if n < 1 {
		n = 1
	}
	return n
}
