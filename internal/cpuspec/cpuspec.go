// Package cpuspec picks how many goroutines compute-bound work should use.
// On hybrid CPUs only the performance cores are counted.
package cpuspec

import (
	"regexp"
	"runtime"
	"strings"

	"github.com/klauspost/cpuid/v2"
)

// CPUSpec describes the host CPU.
type CPUSpec struct {
	BrandName        string
	LogicalCores     int
	PerformanceCores int // 0 when the CPU is not a known hybrid design
}

// GetCPUSpec inspects the host CPU.
func GetCPUSpec() CPUSpec {
	return CPUSpec{
		BrandName:        cpuid.CPU.BrandName,
		LogicalCores:     cpuid.CPU.LogicalCores,
		PerformanceCores: PerformanceCores(cpuid.CPU.BrandName),
	}
}

// OptimalWorkers returns the number of parallel workers to use, never more
// than the CPUs available to the process and never less than one.
func (c CPUSpec) OptimalWorkers() int {
	available := runtime.GOMAXPROCS(0)

	n := c.PerformanceCores
	if n <= 0 {
		n = c.LogicalCores
	}
	if n <= 0 || n > available {
		n = available
	}
	return max(n, 1)
}

// intelPCores maps Intel hybrid model numbers to their performance core count
var intelPCores = map[string]int{
	"12900": 8, "12700": 8, "12600": 6, "12400": 6, "12100": 4,
	"13900": 8, "13700": 8, "13600": 6, "13500": 6, "13400": 6, "13100": 4,
	"14900": 8, "14700": 8, "14600": 6, "14400": 6, "14100": 4,
	"ultra 9 285": 8, "ultra 7 265": 8, "ultra 7 255": 8,
	"ultra 5 235": 6, "ultra 5 225": 4,
}

// applePCores maps Apple silicon chips to their performance core count
var applePCores = map[string]int{
	"m1": 4, "m1 pro": 8, "m1 max": 8, "m1 ultra": 16,
	"m2": 4, "m2 pro": 8, "m2 max": 12, "m2 ultra": 24,
	"m3": 4, "m3 pro": 8, "m3 max": 12, "m3 ultra": 24,
	"m4": 6, "m4 pro": 8, "m4 max": 12,
}

var (
	intelCoreRe  = regexp.MustCompile(`intel.*core.*i[3579]-(\d{5})`)
	intelUltraRe = regexp.MustCompile(`intel.*core.*ultra\s+([579])\s+(?:processor\s+)?(\d{3})`)
	appleRe      = regexp.MustCompile(`apple\s+(m[1-4](?:\s+(?:pro|max|ultra))?)`)
)

// PerformanceCores returns the performance core count for a CPU brand
// string, or 0 when the model is unknown or not a hybrid design.
func PerformanceCores(brand string) int {
	brand = strings.ToLower(brand)

	if m := intelCoreRe.FindStringSubmatch(brand); m != nil {
		return intelPCores[m[1]]
	}
	if m := intelUltraRe.FindStringSubmatch(brand); m != nil {
		return intelPCores["ultra "+m[1]+" "+m[2]]
	}
	if m := appleRe.FindStringSubmatch(brand); m != nil {
		return applePCores[m[1]]
	}
	return 0
}
