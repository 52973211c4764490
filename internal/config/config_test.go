package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[world]
tick_rate = "300ms"
max_players = 50
regions = [[50, 50], [50, 51]]

[nats]
url = "nats://127.0.0.1:4222"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	testutil.AssertEqual(t, "tick", cfg.World.TickRate, 300*time.Millisecond)
	testutil.AssertEqual(t, "players", cfg.World.MaxPlayers, 50)
	testutil.AssertEqual(t, "npcs default", cfg.World.MaxNpcs, 30000)
	testutil.AssertEqual(t, "regions", len(cfg.World.Regions), 2)
	testutil.AssertEqual(t, "spawn default", cfg.World.Spawn, [3]int{3222, 3222, 0})
	testutil.AssertEqual(t, "nats", cfg.Nats.URL, "nats://127.0.0.1:4222")
	testutil.AssertEqual(t, "prefix default", cfg.Nats.SubjectPrefix, "worldcore.player")
	testutil.AssertEqual(t, "per ip default", cfg.Network.MaxConnsPerIP, 5)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	path := writeConfig(t, `
[world]
tick_rate = "0s"
max_players = 0

[logging]
format = "xml"
`)
	_, err := Load(path)
	testutil.AssertErrorContains(t, err, "tick_rate must be positive")
	testutil.AssertErrorContains(t, err, "max_players must be positive")
	testutil.AssertErrorContains(t, err, "logging.format")
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv(EnvPath, "")
	testutil.AssertEqual(t, "default", Path(), DefaultPath)
	t.Setenv(EnvPath, "/etc/worldcore.toml")
	testutil.AssertEqual(t, "env", Path(), "/etc/worldcore.toml")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	testutil.AssertErrorContains(t, err, "read config")
}
