package main

import (
	"github.com/p7r0x7/hashloop/console"
	. "github.com/spf13/pflag"
	"os"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

var pFormat, pNoCodesDefault = "", false
var pIterations uint64
var pStages, pDepth, pWindow, pDelay, pBatch int
var pHelp, pBase64, pNoCodes, pQuiet, pStrict, pString, pTime, pVerify, pDebug bool
var yell, purp, und, zero = console.Yell, console.Purp, console.Und, console.Zero

func init() {
	pNoCodesDefault = !console.Codes()
	pNoCodes = pNoCodesDefault
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--no-codes=false":
			pNoCodes = false
		case "--quiet", "--quiet=true":
			pNoCodes, pQuiet = true, true
		case "--no-codes", "--no-codes=true":
			pNoCodes = true
		}
	}
	if pNoCodes {
		yell, purp, und, zero = "", "", "", ""
	}

	BoolVarP(&pHelp, "help", "h", false,
		purp+"print this help menu"+zero+n)

	BoolVarP(&pBase64, "base64", "b", false,
		purp+"render digests in base64"+zero+" (same as --format=base64)")

	IntVar(&pBatch, "batch", 0,
		purp+"requests admitted per batch"+zero+" (default window)")

	BoolVar(&pDebug, "debug", false, "")
	CommandLine.MarkHidden("debug")

	IntVar(&pDelay, "delay", 0,
		purp+"relay hops on the recirculation path"+zero)

	IntVar(&pDepth, "depth", 2,
		purp+"slots per inter-stage queue"+zero)

	StringVarP(&pFormat, "format", "f", "hex",
		purp+"digest encoding: hex, base64, multihash or cid"+zero)

	Uint64VarP(&pIterations, "iterations", "n", 1,
		purp+"iterations for seeds given with -s, or for request"+zero+
			n+purp+"lines that omit a count"+zero)

	Bool("no-codes", pNoCodesDefault,
		purp+"print to console w/o formatting codes or simplified"+zero+
			n+purp+"filepaths"+zero)

	Bool("quiet", false,
		purp+"suppress non-breaking errors and print ONLY digests"+zero+
			n+"(enables --no-codes)")

	IntVar(&pStages, "stages", 16,
		purp+"compressions per circulation"+zero)

	BoolVar(&pStrict, "strict", false,
		purp+"cause chainsum to panic on any error"+zero)

	BoolVarP(&pString, "string", "s", false,
		purp+"process arguments instead as hexadecimal seeds"+zero)

	BoolVarP(&pTime, "time", "t", false,
		purp+"print time taken to read and hash each target"+zero)

	BoolVar(&pVerify, "verify", false,
		purp+"recompute every chain serially and compare"+zero)

	IntVar(&pWindow, "window", 0,
		purp+"packets in flight at once"+zero+" (default stages*depth*2)")

	/* Order flags alphabetically except for help, which is hoisted to the top. */
	CommandLine.SortFlags = false
	Parse()
	pStrict = pStrict || pDebug
	if pBase64 {
		pFormat = "base64"
	}
}
