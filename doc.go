// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
tesserad is a chain-state introspection daemon for the Tessera network.

It maintains an in-memory view of the block tree, a persistent store of the
unspent transaction output set, and a best chain tip publication point, and
exposes them over an authenticated JSON-RPC interface with websocket
notifications.

The default options are sane for most users.  This means tesserad will work
'out of the box' for most users.  However, there are also a wide variety of
flags that can be used to control it.

The following section provides a usage overview which enumerates the flags.
An interesting point to note is that the long form of all of these options
(except -C) can be specified in a configuration file that is automatically
parsed when tesserad starts up.  By default, the configuration file is located
at ~/.tesserad/tesserad.conf on POSIX-style operating systems and
%LOCALAPPDATA%\tesserad\tesserad.conf on Windows.  The -C (--configfile) flag
can be used to override this location.

Usage:

	tesserad [OPTIONS]

Application Options:

	-A, --appdata=              Path to application home directory
	    --altdnsnames=          Specify additional DNS names to use when
	                            generating the RPC server certificate
	-C, --configfile=           Path to configuration file
	    --cpuprofile=           Write CPU profile to the specified file
	-b, --datadir=              Directory to store data
	-d, --debuglevel=           Logging level for all subsystems {trace,
	                            debug, info, warn, error, critical}
	    --logdir=               Directory to log output
	    --memprofile=           Write mem profile to the specified file
	    --nofilelogging         Disable file logging
	    --norpc                 Disable built-in RPC server
	    --notls                 Disable TLS for the RPC server
	    --profile=              Enable HTTP profiling on given [addr:]port
	    --rpccert=              File containing the certificate file
	    --rpckey=               File containing the certificate key
	    --rpclimitpass=         Password for limited RPC connections
	    --rpclimituser=         Username for limited RPC connections
	    --rpclisten=            Add an interface/port to listen for RPC
	                            connections (default port: 9319, testnet:
	                            19319)
	    --rpcmaxclients=        Max number of RPC clients for standard
	                            connections
	    --rpcmaxconcurrentreqs= Max number of RPC requests that may be
	                            processed concurrently
	    --rpcmaxwebsockets=     Max number of RPC websocket connections
	-P, --rpcpass=              Password for RPC connections
	-u, --rpcuser=              Username for RPC connections
	    --testnet               Use the test network
	-V, --version               Display version information and exit

Help Options:

	-h, --help                  Show this help message
*/
package main
