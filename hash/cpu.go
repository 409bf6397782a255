package hash

import "runtime"
import "sort"

import "github.com/klauspost/cpuid/v2"

var parallelism int

func init() {
	parallelism = cpuid.CPU.LogicalCores
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism <= 0 {
		parallelism = 1
	}
}

// Parallelism reports the recommended number of hashtrons to evaluate concurrently on this machine.
// Can't return 0.
func Parallelism() int {
	return parallelism
}

// CPU describes the processor the model is evaluated on.
type CPU struct {
	Brand    string   `json:"brand"`
	Cores    int      `json:"cores"`
	Threads  int      `json:"threads"`
	Features []string `json:"features"`
}

// Features lists the detected processor features which matter for hash evaluation.
func Features() CPU {
	var feats []string
	for _, f := range []cpuid.FeatureID{cpuid.SSE2, cpuid.SSE4, cpuid.AVX, cpuid.AVX2, cpuid.AVX512F, cpuid.AVX512DQ, cpuid.ASIMD} {
		if cpuid.CPU.Supports(f) {
			feats = append(feats, f.String())
		}
	}
	sort.Strings(feats)
	return CPU{
		Brand:    cpuid.CPU.BrandName,
		Cores:    cpuid.CPU.PhysicalCores,
		Threads:  Parallelism(),
		Features: feats,
	}
}
