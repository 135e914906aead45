package main

import (
	"bufio"
	"context"
	. "fmt"
	"github.com/p7r0x7/hashloop"
	"github.com/p7r0x7/hashloop/format"
	"github.com/p7r0x7/vainpath"
	. "github.com/spf13/pflag"
	"io"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

const n = "\n"
const success, failure = 0, 1

var warnings = 0

func main() { os.Exit(program()) }

// help prints a usage menu. To consistently correctly render this menu in most terminal windows,
// its content should be no wider than 80 columns.
func help() {
	origin, err := os.Executable()
	if err != nil {
		origin = "chainsum" /* Default binary name */
	} else {
		origin = filepath.Base(origin)
	}
	name := vainpath.Trim(origin, "…", 12)
	spaces := strings.Repeat(" ", utf8.RuneCountInString(name)+3)
	Fprint(os.Stderr, yell, "Iterated SHA-256 chains on a recirculating pipeline.", zero, n+n+
		"Usage:"+n+
		"  ", name, " [-h]"+n,
		spaces, "[-bt] [-f <enc>] [-n <uint>] [--quiet|no-codes] [--strict] -|PATH..."+n,
		spaces, "[-bt] [-f <enc>] [-n <uint>] [--quiet|no-codes] [--strict] -s SEED..."+n+n+
			"Each line of a PATH holds one request, `SEED [ITERATIONS]`, with SEED as 64"+n+
			"hexadecimal digits. Blank lines and lines starting with `#` are skipped."+n+n+
			"Options:"+n)
	PrintDefaults()
	name = vainpath.Trim(origin, "…", 15)
	Fprint(os.Stderr, n+"Order of arguments placed after `", name, "` does not matter unless `--` is"+
		n+"specified, signaling the end of parsed flags. Long-form flag equivalents are"+n+
		"above. `-` is treated as a reference to ", os.Stdin.Name(), " on this platform."+n)
}

// This program is a command-line interface for hashloop: it reads requests from files or
// arguments, runs them through one engine, and prints a digest per request.
func program() int {
	if pDebug {
		cf, _ := os.Create("cpu.prof")
		_ = pprof.StartCPUProfile(cf)
		defer pprof.StopCPUProfile()

		tf, _ := os.Create("goroutine.prof")
		defer pprof.Lookup("goroutine").WriteTo(tf, 0)

		bf, _ := os.Create("block.prof")
		defer pprof.Lookup("block").WriteTo(bf, 0)

		mf, err := os.Create("mutex.prof")
		defer pprof.Lookup("mutex").WriteTo(mf, 0)
		if err != nil {
			panic(err)
		}
	}

	if pHelp || NArg() == 0 {
		help()
		return success
	}
	if !format.Valid(pFormat) {
		panic("Unknown digest format " + strconv.Quote(pFormat) + ".")
	}

	e, err := hashloop.NewBuilder().Stages(pStages).QueueDepth(pDepth).Window(pWindow).
		Delay(pDelay).Build()
	if err != nil {
		panic(err)
	}
	defer func() {
		go e.Close()
		for range e.Results() {
		}
	}()
	d := hashloop.NewDriver(e, pBatch)

	for _, target := range Args() {
		start, delta := time.Now(), ""

		reqs, labels, err := requests(target)
		if err != nil {
			warn(err)
			continue
		}
		sums, err := d.Run(context.Background(), reqs)
		if err != nil {
			warn(err)
			continue
		}
		if pTime {
			dt := time.Since(start)
			if dt.Microseconds() > 99 {
				dt = dt.Truncate(10 * time.Microsecond)
			}
			delta = " (" + dt.String() + ")"
		}

		for i, sum := range sums {
			if pVerify && hashloop.Sum(reqs[i].Seed, reqs[i].Iterations) != sum {
				warn(Errorf("chainsum: %s: engine and serial chains disagree", labels[i]))
				continue
			}
			out, err := format.Render(pFormat, sum, reqs[i].Iterations)
			if err != nil {
				warn(Errorf("chainsum: %s: %w", labels[i], err))
				continue
			}
			switch {
			case pQuiet:
				Print(out, n)
			case pString:
				Print(yell, out, zero, `  "`, labels[i], `"`, delta, n)
			case pNoCodes:
				Print(out, `  `, labels[i], delta, n)
			default:
				Print(yell, out, zero, `  `, und, labels[i], zero, delta, n)
			}
		}
	}

	if !pQuiet {
		if warnings == 1 {
			Fprint(os.Stderr, "1 ", purp, "target or request could not be processed.", zero, n)
		} else if warnings > 1 {
			Fprint(os.Stderr, warnings, " ", purp, "targets or requests could not be processed.", zero, n)
		}
	}
	if warnings > 0 {
		return failure
	}
	return success
}

// requests turns one argument into requests, each labelled for display.
func requests(target string) ([]hashloop.Request, []string, error) {
	if pString {
		seed, err := hashloop.ParseWord(target)
		if err != nil {
			return nil, nil, err
		}
		return []hashloop.Request{{Seed: seed, Iterations: pIterations}}, []string{target}, nil
	}

	var r io.Reader
	if target == "-" || target == os.Stdin.Name() {
		r = os.Stdin
	} else {
		file, err := os.Open(target)
		if err != nil {
			return nil, nil, err
		}
		defer file.Close()
		r = file
	}
	name := filepath.Clean(target)
	if !pNoCodes {
		name = vainpath.Simplify(target)
	}

	var reqs []hashloop.Request
	var labels []string
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		req, ok, err := parseLine(scanner.Text())
		if err != nil {
			warn(Errorf("chainsum: %s:%d: %w", target, line, err))
			continue
		}
		if ok {
			reqs, labels = append(reqs, req), append(labels, name+":"+strconv.Itoa(line))
		}
	}
	return reqs, labels, scanner.Err()
}

// parseLine reads `SEED [ITERATIONS]`; ok is false for blank and comment lines.
func parseLine(line string) (req hashloop.Request, ok bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return req, false, nil
	}
	if len(fields) > 2 {
		return req, false, Errorf("%d fields, want at most 2", len(fields))
	}
	if req.Seed, err = hashloop.ParseWord(fields[0]); err != nil {
		return req, false, err
	}
	req.Iterations = pIterations
	if len(fields) == 2 {
		if req.Iterations, err = strconv.ParseUint(fields[1], 0, 64); err != nil {
			return req, false, err
		}
	}
	return req, true, nil
}

func warn(err ...interface{}) {
	if pStrict {
		panic(err)
	}
	if !pQuiet {
		Fprint(os.Stderr, purp)
		Fprint(os.Stderr, err...)
		Fprint(os.Stderr, zero, n)
	}
	warnings++
}
