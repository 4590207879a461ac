package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mosaicnetworks/n2n/src/config"
	"github.com/mosaicnetworks/n2n/src/net"
	"github.com/mosaicnetworks/n2n/src/node"
	"github.com/mosaicnetworks/n2n/src/store"
	"github.com/sirupsen/logrus"
)

func newTestService(t *testing.T) (*Service, *node.Node, string) {
	conf := config.NewTestConfig(t, logrus.DebugLevel)

	trans, err := net.NewTCPStreamLayer("127.0.0.1:0", "")
	if err != nil {
		t.Fatal(err)
	}
	server, err := node.NewNode(conf, store.NewInmemStore(), trans)
	if err != nil {
		t.Fatal(err)
	}
	go server.Serve()
	t.Cleanup(server.Shutdown)

	client, err := node.NewNode(config.NewTestConfig(t, logrus.DebugLevel), store.NewInmemStore(), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(client.Shutdown)

	return NewService("127.0.0.1:0", client, conf.Logger()), client, trans.AdvertiseAddr()
}

func get(t *testing.T, s *Service, path string, v interface{}) {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("%s: status %d", path, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("%s: content type %q", path, ct)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("%s: missing CORS header", path)
	}
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func TestStatsAndPeers(t *testing.T) {
	s, client, addr := newTestService(t)

	var peers []store.PeerRecord
	get(t, s, "/peers", &peers)
	if len(peers) != 0 {
		t.Fatalf("expected no peers, got %v", peers)
	}

	if _, err := client.Ping(context.Background(), addr); err != nil {
		t.Fatal(err)
	}

	var stats map[string]string
	get(t, s, "/stats", &stats)
	if stats["pings"] != "1" || stats["agreed"] != "1" {
		t.Fatalf("unexpected stats %v", stats)
	}

	get(t, s, "/peers", &peers)
	if len(peers) != 1 || peers[0].Addr != addr || !peers[0].Agreed {
		t.Fatalf("unexpected peers %+v", peers)
	}
}
