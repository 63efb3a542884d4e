package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/messagely/backend/internal/common/logger"
)

func freePort(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve a port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return strconv.Itoa(port)
}

func waitListening(t *testing.T, port string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("tcp", "127.0.0.1:"+port)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("server never started listening")
}

func TestStartWithGracefulShutdown_HooksRunAfterDrain(t *testing.T) {
	log, err := logger.New("", "test", "critical")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	port := freePort(t)

	var hookCalled atomic.Bool
	var hookSeenDuringRequest atomic.Bool

	requestStarted := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("GET /slow", func(w http.ResponseWriter, r *http.Request) {
		close(requestStarted)
		time.Sleep(200 * time.Millisecond)
		hookSeenDuringRequest.Store(hookCalled.Load())
		w.WriteHeader(http.StatusOK)
	})

	server := New(port, mux)

	hooks := []ShutdownHook{
		func(ctx context.Context) error {
			hookCalled.Store(true)
			return nil
		},
	}

	done := make(chan struct{})
	go func() {
		StartWithGracefulShutdown(server, log, "test", hooks)
		close(done)
	}()

	waitListening(t, port)

	requestDone := make(chan struct{})
	go func() {
		defer close(requestDone)
		resp, err := http.Get("http://127.0.0.1:" + port + "/slow")
		if err == nil {
			resp.Body.Close()
		}
	}()

	<-requestStarted
	if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("failed to signal shutdown: %v", err)
	}

	<-requestDone
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not complete")
	}

	if !hookCalled.Load() {
		t.Fatal("expected the shutdown hook to run")
	}
	if hookSeenDuringRequest.Load() {
		t.Error("expected hooks to run only after in-flight requests drained")
	}
}
