// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"strings"

	"github.com/decred/dcrd/chaincfg/chainhash"

	"github.com/tessernet/tesserad/chainidx"
	"github.com/tessernet/tesserad/coinstore"
	"github.com/tessernet/tesserad/internal/limits"
	"github.com/tessernet/tesserad/internal/rpcserver"
	"github.com/tessernet/tesserad/internal/version"
	"github.com/tessernet/tesserad/tipnotify"
)

var cfg *config

// tesseradMain is the real main function for tesserad.  It is necessary to
// work around the fact that deferred functions do not run when os.Exit() is
// called.
func tesseradMain() error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	tcfg, _, err := loadConfig(appName)
	if err != nil {
		usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
		fmt.Fprintln(os.Stderr, err)
		var e errSuppressUsage
		if !errors.As(err, &e) {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return err
	}
	cfg = tcfg
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	// Get a context that will be canceled when a shutdown signal has been
	// triggered either from an OS signal such as SIGINT (Ctrl+C) or from
	// another subsystem such as the RPC server.
	ctx := shutdownListener()
	defer tsrdLog.Info("Shutdown complete")

	// Show version and home dir at startup.
	tsrdLog.Infof("Version %s (Go version %s %s/%s)", version.String(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
	tsrdLog.Infof("Home dir: %s", cfg.HomeDir)
	if cfg.NoFileLogging {
		tsrdLog.Info("File logging disabled")
	}

	// Coin store iteration during audits can cause bursty allocations.  This
	// limits the garbage collector from excessively overallocating during
	// bursts.  For versions of Go without support for a soft upper memory
	// limit, the GC percentage is lowered instead which has the effect of
	// preventing overallocations at the expense of more frequent GC cycles.
	if limits.SupportsMemoryLimit {
		const softMemLimit = (15 * (1 << 30)) / 10 // 1.5 GiB
		limits.SetMemoryLimit(softMemLimit)
	} else {
		debug.SetGCPercent(20)
	}

	// Enable http profile server if requested.  Note that since the server
	// may be started now or dynamically started and stopped later, the stop
	// call is always deferred to ensure it is always stopped during process
	// shutdown.
	var profiler profileServer
	defer profiler.Stop()
	if cfg.Profile != "" {
		const allowNonLoopback = true
		if err := profiler.Start(cfg.Profile, allowNonLoopback); err != nil {
			tsrdLog.Warnf("unable to start profile server: %v", err)
			return err
		}
	}

	// Write cpu profile if requested.
	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			tsrdLog.Errorf("Unable to create cpu profile: %v", err.Error())
			return err
		}
		pprof.StartCPUProfile(f)
		defer f.Close()
		defer pprof.StopCPUProfile()
	}

	// Write mem profile if requested.
	if cfg.MemProfile != "" {
		f, err := os.Create(cfg.MemProfile)
		if err != nil {
			tsrdLog.Errorf("Unable to create mem profile: %v", err)
			return err
		}
		defer f.Close()
		defer pprof.WriteHeapProfile(f)
	}

	// Return now if a shutdown signal was triggered.
	if shutdownRequested(ctx) {
		return nil
	}

	// Open the coin store.
	store, err := coinstore.Open(cfg.DataDir)
	if err != nil {
		tsrdLog.Errorf("%v", err)
		return err
	}
	defer func() {
		// Ensure the store is sync'd and closed on shutdown.
		tsrdLog.Infof("Gracefully shutting down the coin store...")
		store.Close()
	}()

	// Return now if a shutdown signal was triggered.
	if shutdownRequested(ctx) {
		return nil
	}

	// Construct the block index seeded with the genesis block along with a
	// view of the best chain rooted at it.  The validation engine extends
	// both as it connects blocks.
	genesisNode := chainidx.NewNode(&cfg.params.GenesisBlock.Header, nil)
	index := chainidx.NewIndex()
	index.AddNode(genesisNode)
	index.SetStatusFlags(genesisNode, chainidx.StatusDataStored|
		chainidx.StatusValidated)
	view := chainidx.NewChainView(genesisNode)

	storeBest, err := store.BestHash()
	if err != nil {
		tsrdLog.Errorf("%v", err)
		return err
	}
	var zeroHash chainhash.Hash
	if storeBest != zeroHash && storeBest != cfg.params.GenesisHash {
		tsrdLog.Infof("Coin store is current with block %v which is not yet "+
			"in the block index", storeBest)
	}

	// Create the best chain tip publication point seeded with the current
	// tip of the best chain.
	notifier := tipnotify.New(genesisNode.Hash(), genesisNode.Height())
	defer notifier.Shutdown()

	if shutdownRequested(ctx) {
		return nil
	}

	// Create and run the RPC server unless it is disabled.
	var rpcServer *rpcserver.Server
	if !cfg.DisableRPC {
		rpcServer, err = newRPCServer(index, view, notifier, store)
		if err != nil {
			tsrdLog.Errorf("Unable to start RPC server: %v", err)
			return err
		}

		// Signal process shutdown when the RPC server requests it.
		go func() {
			<-rpcServer.RequestedProcessShutdown()
			shutdownRequestChannel <- struct{}{}
		}()
	}

	// Run the RPC server if enabled.  This will block until the context is
	// cancelled which happens when the interrupt signal is received from an
	// OS signal or shutdown is requested through one of the subsystems such
	// as the RPC server.
	if rpcServer != nil {
		rpcServer.Run(ctx)
		rpcsLog.Infof("RPC server shutdown complete")
	} else {
		<-ctx.Done()
	}
	return nil
}

func main() {
	// Work around defer not working after os.Exit()
	if err := tesseradMain(); err != nil {
		os.Exit(1)
	}
}
