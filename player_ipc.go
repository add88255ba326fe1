// player_ipc.go - Unix domain socket for single-instance control

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"
)

const (
	ipcMaxRequestSize = 4096
	ipcTimeout        = 10 * time.Second
)

var ErrInstanceRunning = errors.New("another instance is already running")

// IPC commands a running player accepts.
const (
	ipcCmdInsert = "insert"
	ipcCmdEject  = "eject"
	ipcCmdPlay   = "play"
)

type ipcRequest struct {
	Cmd  string `json:"cmd"`
	Path string `json:"path,omitempty"`
}

type ipcResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// IPCServer listens on a Unix socket and hands validated requests to the
// player.
type IPCServer struct {
	listener net.Listener
	handler  func(ipcRequest) error
	done     chan struct{}
	sockPath string
	log      *slog.Logger
}

func resolveSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "cartridge-player.sock")
	}
	return filepath.Join(os.TempDir(), "cartridge-player.sock")
}

// NewIPCServer binds the control socket at the default path.
func NewIPCServer(handler func(ipcRequest) error) (*IPCServer, error) {
	return newIPCServerAt(resolveSocketPath(), handler)
}

func newIPCServerAt(sockPath string, handler func(ipcRequest) error) (*IPCServer, error) {
	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		// A socket nobody answers on is left over from a crash.
		conn, dialErr := net.DialTimeout("unix", sockPath, 2*time.Second)
		if dialErr == nil {
			conn.Close()
			return nil, ErrInstanceRunning
		}
		os.Remove(sockPath)
		if ln, err = net.Listen("unix", sockPath); err != nil {
			return nil, fmt.Errorf("ipc bind failed: %w", err)
		}
	}
	return &IPCServer{
		listener: ln,
		handler:  handler,
		done:     make(chan struct{}),
		sockPath: sockPath,
		log:      logComponent("ipc"),
	}, nil
}

// Start begins accepting connections in a goroutine.
func (s *IPCServer) Start() {
	go s.acceptLoop()
}

// Stop closes the listener, waits for the accept loop and removes the
// socket file.
func (s *IPCServer) Stop() {
	s.listener.Close()
	<-s.done
	os.Remove(s.sockPath)
}

func (s *IPCServer) acceptLoop() {
	defer close(s.done)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *IPCServer) handleConn(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(ipcTimeout))

	buf := make([]byte, ipcMaxRequestSize)
	n, err := conn.Read(buf)
	if err != nil || n == 0 {
		return
	}

	var req ipcRequest
	if err := json.Unmarshal(buf[:n], &req); err != nil {
		writeIPCResponse(conn, ipcResponse{Status: "err", Message: "invalid json"})
		return
	}
	if err := validateIPCRequest(req); err != nil {
		writeIPCResponse(conn, ipcResponse{Status: "err", Message: err.Error()})
		return
	}
	s.log.Debug("remote request", "cmd", req.Cmd, "path", req.Path)
	if err := s.handler(req); err != nil {
		writeIPCResponse(conn, ipcResponse{Status: "err", Message: err.Error()})
		return
	}
	writeIPCResponse(conn, ipcResponse{Status: "ok"})
}

func writeIPCResponse(conn net.Conn, resp ipcResponse) {
	data, _ := json.Marshal(resp)
	conn.Write(data)
}

func validateIPCRequest(req ipcRequest) error {
	switch req.Cmd {
	case ipcCmdEject, ipcCmdPlay:
		return nil
	case ipcCmdInsert:
	default:
		return fmt.Errorf("unknown command %q", req.Cmd)
	}
	if !filepath.IsAbs(req.Path) {
		return fmt.Errorf("absolute path required")
	}
	if _, err := os.Stat(req.Path); err != nil {
		return fmt.Errorf("cartridge not found: %s", req.Path)
	}
	return nil
}

// SendIPC delivers req to the running instance at the default socket.
func SendIPC(req ipcRequest) error {
	return sendIPCAt(resolveSocketPath(), req)
}

func sendIPCAt(sockPath string, req ipcRequest) error {
	conn, err := net.DialTimeout("unix", sockPath, ipcTimeout)
	if err != nil {
		return fmt.Errorf("cannot connect to running instance: %w", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(ipcTimeout))

	data, _ := json.Marshal(req)
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}

	buf := make([]byte, ipcMaxRequestSize)
	n, err := conn.Read(buf)
	if err != nil {
		return fmt.Errorf("read response failed: %w", err)
	}
	var resp ipcResponse
	if err := json.Unmarshal(buf[:n], &resp); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	if resp.Status != "ok" {
		return fmt.Errorf("remote error: %s", resp.Message)
	}
	return nil
}
