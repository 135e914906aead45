package hashloop

import (
	"github.com/klauspost/cpuid/v2"
	"reflect"
	"runtime"
	"testing"
)

func TestFeatureCheck(t *testing.T) {
	if runtime.GOARCH == "amd64" && !cpuid.CPU.Has(cpuid.SHA) && featureCheck() {
		t.Fatalf("no SHA-NI, yet sha256-simd counted as accelerated")
	}
	if runtime.GOARCH != "amd64" && runtime.GOARCH != "arm64" && featureCheck() {
		t.Fatalf("%s counted as accelerated", runtime.GOARCH)
	}

	want := reflect.ValueOf(Compressor(Compress)).Pointer()
	if accelerated {
		want = reflect.ValueOf(Compressor(SIMD)).Pointer()
	}
	if got := reflect.ValueOf(DefaultCompressor()).Pointer(); got != want {
		t.Fatalf("DefaultCompressor disagrees with the feature check (accelerated %v)", accelerated)
	}
}
