package main

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestIPC_InsertRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sock := filepath.Join(dir, "p.sock")
	cart := writeCartridge(t, dir, "retro", retroMeta)

	var (
		mu  sync.Mutex
		got []ipcRequest
	)
	srv, err := newIPCServerAt(sock, func(req ipcRequest) error {
		mu.Lock()
		got = append(got, req)
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("newIPCServerAt: %v", err)
	}
	srv.Start()
	defer srv.Stop()

	if err := sendIPCAt(sock, ipcRequest{Cmd: ipcCmdInsert, Path: cart}); err != nil {
		t.Fatalf("send insert: %v", err)
	}
	if err := sendIPCAt(sock, ipcRequest{Cmd: ipcCmdEject}); err != nil {
		t.Fatalf("send eject: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0].Path != cart || got[1].Cmd != ipcCmdEject {
		t.Fatalf("handled = %+v", got)
	}
}

func TestIPC_RejectsBadRequests(t *testing.T) {
	dir := t.TempDir()
	sock := filepath.Join(dir, "p.sock")
	srv, err := newIPCServerAt(sock, func(ipcRequest) error { return errors.New("handler failed") })
	if err != nil {
		t.Fatal(err)
	}
	srv.Start()
	defer srv.Stop()

	for _, c := range []struct {
		req  ipcRequest
		want string
	}{
		{ipcRequest{Cmd: "format"}, "unknown command"},
		{ipcRequest{Cmd: ipcCmdInsert, Path: "relative/cart"}, "absolute path"},
		{ipcRequest{Cmd: ipcCmdInsert, Path: filepath.Join(dir, "missing")}, "not found"},
		{ipcRequest{Cmd: ipcCmdPlay}, "handler failed"},
	} {
		err := sendIPCAt(sock, c.req)
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Fatalf("%+v: err = %v, want %q", c.req, err, c.want)
		}
	}
}

func TestIPC_SecondServerRefused(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "p.sock")
	srv, err := newIPCServerAt(sock, func(ipcRequest) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	srv.Start()
	defer srv.Stop()

	if _, err := newIPCServerAt(sock, func(ipcRequest) error { return nil }); !errors.Is(err, ErrInstanceRunning) {
		t.Fatalf("second server err = %v", err)
	}
}
