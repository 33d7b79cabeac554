// Copyright (c) 2024-2025 The Tessera developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package types

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/dcrd/dcrjson/v4"
)

// TestWaitCmdDefaults ensures the optional timeout parameter of the wait
// commands is applied when omitted and honored when provided.
func TestWaitCmdDefaults(t *testing.T) {
	t.Parallel()

	// Omitted timeout defaults to zero, meaning no timeout.
	marshalled := `{"jsonrpc":"1.0","method":"waitforblockheight","params":[250000],"id":1}`
	var request dcrjson.Request
	if err := json.Unmarshal([]byte(marshalled), &request); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	cmd, err := dcrjson.ParseParams(Method(request.Method), request.Params)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	zero := int64(0)
	want := &WaitForBlockHeightCmd{Height: 250000, Timeout: &zero}
	if !reflect.DeepEqual(cmd, want) {
		t.Fatalf("unexpected command -- got %s, want %s", spew.Sdump(cmd),
			spew.Sdump(want))
	}

	// An explicit timeout is carried through.
	marshalled = `{"jsonrpc":"1.0","method":"waitforblock","params":["000000000000437482b6d47f82f374cde539440ddb108b0a76886f0d87d126b9",5000],"id":1}`
	if err := json.Unmarshal([]byte(marshalled), &request); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	cmd, err = dcrjson.ParseParams(Method(request.Method), request.Params)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	timeout := int64(5000)
	wantBlock := &WaitForBlockCmd{
		BlockHash: "000000000000437482b6d47f82f374cde539440ddb108b0a76886f0d87d126b9",
		Timeout:   &timeout,
	}
	if !reflect.DeepEqual(cmd, wantBlock) {
		t.Fatalf("unexpected command -- got %s, want %s", spew.Sdump(cmd),
			spew.Sdump(wantBlock))
	}
}

// TestCmdMethodRegistration ensures each chain server command round trips
// through the generic dcrjson marshalling using its registered method.
func TestCmdMethodRegistration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method Method
		cmd    interface{}
	}{
		{"getbestblockhash", NewGetBestBlockHashCmd()},
		{"getblockchaininfo", NewGetBlockChainInfoCmd()},
		{"getblockcount", NewGetBlockCountCmd()},
		{"getblockhash", NewGetBlockHashCmd(120000)},
		{"getchaintips", NewGetChainTipsCmd()},
		{"gettxoutsetinfo", NewGetTxOutSetInfoCmd()},
		{"stop", NewStopCmd()},
		{"version", NewVersionCmd()},
		{"waitfornewblock", NewWaitForNewBlockCmd(nil)},
	}

	for _, test := range tests {
		marshalled, err := dcrjson.MarshalCmd("1.0", 1, test.cmd)
		if err != nil {
			t.Errorf("%s: unexpected marshal error: %v", test.method, err)
			continue
		}
		var request dcrjson.Request
		if err := json.Unmarshal(marshalled, &request); err != nil {
			t.Errorf("%s: unexpected unmarshal error: %v", test.method, err)
			continue
		}
		if request.Method != string(test.method) {
			t.Errorf("unexpected method -- got %s, want %s", request.Method,
				test.method)
		}
	}
}
