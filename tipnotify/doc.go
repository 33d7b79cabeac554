// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package tipnotify provides a broadcast primitive for announcing best chain tip
changes and waiting on them.

A single Notifier instance tracks the most recently published tip and wakes
every blocked waiter whenever a new tip is published.  Waiters may block until
any change relative to a baseline, until a specific block hash becomes the
tip, or until the tip reaches a target height.  All waits honor context
cancellation and an optional timeout, and every wait returns the current tip
at the time it wakes so callers always observe a coherent value regardless of
why they woke.
*/
package tipnotify
