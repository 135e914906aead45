package console

import (
	"runtime"
	"testing"
)

func TestCodes(t *testing.T) {
	if runtime.GOOS != "windows" && !Codes() {
		t.Fatalf("formatting codes disabled on %s", runtime.GOOS)
	}
	if Codes() != codes {
		t.Fatalf("Codes changed after init")
	}
}
