//go:build windows

package console

import (
	. "golang.org/x/sys/windows"
	"os"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

/* Both handles must end up in virtual terminal mode. */
func enable() bool {
	for _, f := range [2]*os.File{os.Stdout, os.Stderr} {
		h, mode := Handle(f.Fd()), uint32(0)
		if GetConsoleMode(h, &mode) != nil {
			return false
		}
		if mode&ENABLE_VIRTUAL_TERMINAL_PROCESSING == 0 &&
			SetConsoleMode(h, mode|ENABLE_VIRTUAL_TERMINAL_PROCESSING) != nil {
			return false
		}
	}
	return true
}
