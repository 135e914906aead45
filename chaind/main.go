package main

import (
	. "fmt"
	"github.com/p7r0x7/hashloop"
	"github.com/p7r0x7/hashloop/chainrpc"
	"github.com/p7r0x7/hashloop/console"
	. "github.com/spf13/pflag"
	"google.golang.org/grpc"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// chaind serves one hashloop engine over the Chain gRPC service until it is interrupted.

const n = "\n"

var pListen string
var pStages, pDepth, pWindow, pDelay, pBatch, pCache, pMaxMsg int
var pHelp, pNoCodes, pQuiet bool
var purp, zero = console.Purp, console.Zero

func init() {
	BoolVarP(&pHelp, "help", "h", false, "print this help menu"+n)
	IntVar(&pBatch, "batch", 0, "requests admitted per batch (default window)")
	IntVar(&pCache, "cache", 1<<16, "results remembered across calls (0 disables)")
	IntVar(&pDelay, "delay", 0, "relay hops on the recirculation path")
	IntVar(&pDepth, "depth", 2, "slots per inter-stage queue")
	StringVarP(&pListen, "listen", "l", "127.0.0.1:7411", "address to serve on")
	IntVar(&pMaxMsg, "max-msg", 16<<20, "largest request or reply in bytes")
	BoolVar(&pNoCodes, "no-codes", !console.Codes(), "print without formatting codes")
	BoolVarP(&pQuiet, "quiet", "q", false, "print nothing but breaking errors")
	IntVar(&pStages, "stages", 16, "compressions per circulation")
	IntVar(&pWindow, "window", 0, "packets in flight at once (default stages*depth*2)")
	CommandLine.SortFlags = false
	Parse()
	if pNoCodes {
		purp, zero = "", ""
	}
}

func main() { os.Exit(program()) }

func program() int {
	if pHelp {
		Fprint(os.Stderr, "Usage:"+n+"  chaind [-h] [-q] [-l <addr>] [--stages <int>] ..."+n+n+"Options:"+n)
		PrintDefaults()
		return 0
	}

	e, err := hashloop.NewBuilder().Stages(pStages).QueueDepth(pDepth).Window(pWindow).
		Delay(pDelay).Build()
	if err != nil {
		Fprintln(os.Stderr, purp+err.Error()+zero)
		return 2
	}
	lis, err := net.Listen("tcp", pListen)
	if err != nil {
		Fprintln(os.Stderr, purp+err.Error()+zero)
		return 1
	}

	srv := grpc.NewServer(grpc.MaxRecvMsgSize(pMaxMsg), grpc.MaxSendMsgSize(pMaxMsg))
	chainrpc.RegisterChainServer(srv, &chainrpc.Server{
		Driver: hashloop.NewDriver(e, pBatch),
		Cache:  chainrpc.NewCache(pCache),
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		srv.GracefulStop()
	}()

	cfg := e.Config()
	logf("serving on %s with %d stages, depth %d, window %d, delay %d", lis.Addr(),
		cfg.Stages, cfg.QueueDepth, cfg.Window, cfg.Delay)
	start := time.Now()
	err = srv.Serve(lis)

	go e.Close()
	for range e.Results() {
	}
	s := e.Stats()
	logf("stopped after %s: %d packets, %d compressions, %d circulations",
		time.Since(start).Truncate(time.Millisecond), s.Completed, s.Compressions, s.Circulations)
	if err != nil {
		Fprintln(os.Stderr, purp+err.Error()+zero)
		return 1
	}
	return 0
}

func logf(format string, args ...interface{}) {
	if !pQuiet {
		Fprintf(os.Stderr, purp+"chaind:"+zero+" "+format+n, args...)
	}
}
