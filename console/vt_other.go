//go:build !windows

package console

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

func enable() bool { return true }
