// Package console decides whether the terminal behind stdout and stderr renders ANSI formatting
// codes, switching Windows consoles into virtual terminal mode on the way.
package console

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

const Yell, Purp, Und, Zero = "\033[33m", "\033[35m", "\033[4m", "\033[0m"

var codes = enable()

// Codes reports whether both stdout and stderr accept formatting codes.
func Codes() bool { return codes }
