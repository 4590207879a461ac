package net

import (
	"io"
	"net"
	"testing"
	"time"
)

func TestTCPStreamLayer(t *testing.T) {
	stream, err := NewTCPStreamLayer("127.0.0.1:0", "")
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	if stream.AdvertiseAddr() != stream.Addr().String() {
		t.Fatalf("expected advertise addr to default to %s, got %s", stream.Addr(), stream.AdvertiseAddr())
	}

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := stream.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- conn
	}()

	out, err := stream.Dial(stream.Addr().String(), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	in, ok := <-accepted
	if !ok {
		t.Fatalf("accept failed")
	}
	defer in.Close()

	if _, err := out.Write([]byte("ping")); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 4)
	if _, err := io.ReadFull(in, buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != "ping" {
		t.Fatalf("expected ping, got %q", buf)
	}
}

func TestTCPStreamLayerAdvertise(t *testing.T) {
	if _, err := NewTCPStreamLayer("0.0.0.0:0", ""); err != errNotAdvertisable {
		t.Fatalf("expected errNotAdvertisable, got %v", err)
	}

	stream, err := NewTCPStreamLayer("0.0.0.0:0", "127.0.0.1:3001")
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()
	if stream.AdvertiseAddr() != "127.0.0.1:3001" {
		t.Fatalf("unexpected advertise addr %s", stream.AdvertiseAddr())
	}
}
