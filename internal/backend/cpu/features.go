package cpu

import (
	syscpu "golang.org/x/sys/cpu"
)

// Features lists the SIMD extensions the host CPU reports.
// The kernels are portable Go; the list is informational.
func (cpu *CPUBackend) Features() []string {
	var features []string
	add := func(ok bool, name string) {
		if ok {
			features = append(features, name)
		}
	}

	add(syscpu.X86.HasSSE41, "sse4.1")
	add(syscpu.X86.HasAVX, "avx")
	add(syscpu.X86.HasAVX2, "avx2")
	add(syscpu.X86.HasFMA, "fma")
	add(syscpu.X86.HasAVX512F, "avx512f")
	add(syscpu.ARM64.HasASIMD, "asimd")
	add(syscpu.ARM64.HasFPHP, "fphp")
	add(syscpu.ARM64.HasSVE, "sve")

	return features
}
