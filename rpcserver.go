// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/elliptic"
	"crypto/tls"
	"errors"
	"net"
	"os"
	"time"

	"github.com/decred/dcrd/certgen"

	"github.com/tessernet/tesserad/chainidx"
	"github.com/tessernet/tesserad/coinstore"
	"github.com/tessernet/tesserad/internal/rpcserver"
	"github.com/tessernet/tesserad/tipnotify"
)

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		return !os.IsNotExist(err)
	}
	return true
}

// genCertPair generates a key/cert pair to the paths provided.
func genCertPair(certFile, keyFile string, altDNSNames []string) error {
	rpcsLog.Infof("Generating TLS certificates...")

	org := "tesserad autogenerated cert"
	validUntil := time.Now().Add(10 * 365 * 24 * time.Hour)
	cert, key, err := certgen.NewTLSCertPair(elliptic.P256(), org,
		validUntil, altDNSNames)
	if err != nil {
		return err
	}

	// Write cert and key files.
	if err = os.WriteFile(certFile, cert, 0644); err != nil {
		return err
	}
	if err = os.WriteFile(keyFile, key, 0600); err != nil {
		os.Remove(certFile)
		return err
	}

	rpcsLog.Infof("Done generating TLS certificates")
	return nil
}

// setupRPCListeners returns a slice of listeners that are configured for use
// with the RPC server depending on the configuration settings for listen
// addresses and TLS.
func setupRPCListeners() ([]net.Listener, error) {
	// Setup TLS if not disabled.
	listenFunc := net.Listen
	if !cfg.DisableTLS {
		// Generate the TLS cert and key file if both don't already
		// exist.
		if !fileExists(cfg.RPCKey) && !fileExists(cfg.RPCCert) {
			err := genCertPair(cfg.RPCCert, cfg.RPCKey, cfg.AltDNSNames)
			if err != nil {
				return nil, err
			}
		}
		keypair, err := tls.LoadX509KeyPair(cfg.RPCCert, cfg.RPCKey)
		if err != nil {
			return nil, err
		}

		tlsConfig := tls.Config{
			Certificates: []tls.Certificate{keypair},
			MinVersion:   tls.VersionTLS12,
		}

		// Change the standard net.Listen function to the tls one.
		listenFunc = func(net string, laddr string) (net.Listener, error) {
			return tls.Listen(net, laddr, &tlsConfig)
		}
	}

	listeners := make([]net.Listener, 0, len(cfg.RPCListeners))
	for _, addr := range cfg.RPCListeners {
		listener, err := listenFunc("tcp", addr)
		if err != nil {
			rpcsLog.Warnf("Can't listen on %s: %v", addr, err)
			continue
		}
		listeners = append(listeners, listener)
	}

	return listeners, nil
}

// newRPCServer creates a new RPC server instance over the provided chain
// state collaborators according to the active configuration.
func newRPCServer(index *chainidx.Index, view *chainidx.ChainView,
	notifier *tipnotify.Notifier, store *coinstore.Store) (*rpcserver.Server, error) {

	rpcListeners, err := setupRPCListeners()
	if err != nil {
		return nil, err
	}
	if len(rpcListeners) == 0 {
		return nil, errors.New("RPC: no valid listen address")
	}

	return rpcserver.New(&rpcserver.Config{
		Listeners:            rpcListeners,
		Chain:                &rpcChain{index: index, view: view},
		TipWatcher:           notifier,
		CoinAuditor:          &rpcCoinAuditor{store: store},
		ChainParams:          cfg.params.Params,
		RPCUser:              cfg.RPCUser,
		RPCPass:              cfg.RPCPass,
		RPCLimitUser:         cfg.RPCLimitUser,
		RPCLimitPass:         cfg.RPCLimitPass,
		RPCMaxClients:        cfg.RPCMaxClients,
		RPCMaxConcurrentReqs: cfg.RPCMaxConcurrentReqs,
		RPCMaxWebsockets:     cfg.RPCMaxWebsockets,
	})
}
