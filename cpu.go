package hashloop

import (
	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"
	"runtime"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

var accelerated = featureCheck()

/* sha256-simd only has assembly for SHA-NI and the ARMv8 SHA2 instructions. */
func featureCheck() bool {
	switch runtime.GOARCH {
	case "amd64":
		return cpuid.CPU.Supports(cpuid.SHA, cpuid.SSSE3, cpuid.SSE4)
	case "arm64":
		return cpu.ARM64.HasSHA2 || cpuid.CPU.Has(cpuid.SHA2)
	default:
		return false
	}
}
