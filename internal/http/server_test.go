package http

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/heraldry-backend/internal/platform/logger"
)

func runServer(s *Server) <-chan error {
	done := make(chan error, 1)
	go func() { done <- s.Run("127.0.0.1:0") }()
	return done
}

func waitStopped(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected run error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("server still running after shutdown")
	}
}

func TestServerShutdownRightAfterStart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for i := 0; i < 20; i++ {
		s := NewServer(RouterConfig{Log: logger.Nop()})
		done := runServer(s)
		if err := s.Shutdown(context.Background()); err != nil {
			t.Fatalf("unexpected shutdown error: %v", err)
		}
		waitStopped(t, done)
	}
}

func TestServerShutdownBeforeRun(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewServer(RouterConfig{Log: logger.Nop()})
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
	waitStopped(t, runServer(s))
}
