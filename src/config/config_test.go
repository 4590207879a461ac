package config

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func TestMagic(t *testing.T) {
	c := NewDefaultConfig()

	magic, err := c.Magic()
	if err != nil || magic != MainnetMagic {
		t.Fatalf("expected mainnet magic, got %d (%v)", magic, err)
	}

	c.Network = Preview
	if magic, _ := c.Magic(); magic != PreviewMagic {
		t.Fatalf("expected preview magic, got %d", magic)
	}

	c.Network = ""
	c.NetworkMagic = 42
	if magic, _ := c.Magic(); magic != 42 {
		t.Fatalf("expected raw magic 42, got %d", magic)
	}

	c.Network = "nowhere"
	if _, err := c.Magic(); !errors.Is(err, ErrUnknownNetwork) {
		t.Fatalf("expected ErrUnknownNetwork, got %v", err)
	}
}

func TestNetworks(t *testing.T) {
	names := Networks()
	if len(names) != 5 || names[0] != Mainnet {
		t.Fatalf("unexpected networks %v", names)
	}
}

func TestSetDataDir(t *testing.T) {
	c := NewDefaultConfig()
	c.SetDataDir("/tmp/n2n")
	if c.DatabaseDir != filepath.Join("/tmp/n2n", DefaultBadgerFile) {
		t.Fatalf("database dir should follow data dir, got %s", c.DatabaseDir)
	}

	c.DatabaseDir = "/var/db"
	c.SetDataDir("/tmp/other")
	if c.DatabaseDir != "/var/db" {
		t.Fatalf("explicit database dir should stick, got %s", c.DatabaseDir)
	}
}

func TestLogLevel(t *testing.T) {
	if LogLevel("warn") != logrus.WarnLevel || LogLevel("bogus") != logrus.DebugLevel {
		t.Fatalf("unexpected log level parsing")
	}

	c := NewTestConfig(t, logrus.InfoLevel)
	if c.Logger().Logger.Level != logrus.InfoLevel {
		t.Fatalf("test config should keep its logger level")
	}
}
