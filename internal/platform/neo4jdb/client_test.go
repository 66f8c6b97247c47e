package neo4jdb

import (
	"testing"
	"time"

	"github.com/yungbote/heraldry-backend/internal/platform/logger"
)

func TestApplyEnv(t *testing.T) {
	t.Setenv("NEO4J_URI", "bolt://graph:7687")
	t.Setenv("NEO4J_DATABASE", "heraldry")
	t.Setenv("NEO4J_TIMEOUT_SECONDS", "3")
	t.Setenv("NEO4J_USER", "")

	cfg := DefaultConfig().ApplyEnv()
	if cfg.URI != "bolt://graph:7687" || cfg.Database != "heraldry" || cfg.User != "neo4j" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if got := cfg.timeout(); got != 3*time.Second {
		t.Fatalf("unexpected timeout: got=%v want=3s", got)
	}
}

func TestNewRequiresURI(t *testing.T) {
	if _, err := New(Config{}, logger.Nop()); err == nil {
		t.Fatalf("expected error without URI")
	}
	if _, err := New(Config{URI: "bolt://x"}, nil); err == nil {
		t.Fatalf("expected error without logger")
	}
}
