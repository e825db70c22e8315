package transport

import (
	"bytes"
	"testing"
	"time"
)

func TestRequestReplyRoundTrip(t *testing.T) {
	endpoint, err := ParseEndpoint("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	replier, err := Listen(endpoint, func(req []byte) []byte {
		reply := make([]byte, len(req))
		for i, b := range req {
			reply[i] = b ^ 0xFF
		}
		return reply
	})
	if err != nil {
		t.Fatal(err)
	}
	defer replier.Close()

	go replier.Serve()

	boundAddr := replier.Addr().String()
	boundEndpoint, err := ParseEndpoint(boundAddr)
	if err != nil {
		t.Fatal(err)
	}

	req := NewRequester(boundEndpoint, time.Second, time.Second)
	defer req.Close()

	reply, err := req.Call([]byte{0x01, 0x02, 0x03})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xFE, 0xFD, 0xFC}
	if !bytes.Equal(reply, want) {
		t.Fatalf("reply = %v, want %v", reply, want)
	}
}

func TestRequesterTimeoutRebuildsConnection(t *testing.T) {
	endpoint, err := ParseEndpoint("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	var hang bool
	replier, err := Listen(endpoint, func(req []byte) []byte {
		if hang {
			time.Sleep(200 * time.Millisecond)
		}
		return []byte("ok")
	})
	if err != nil {
		t.Fatal(err)
	}
	defer replier.Close()
	go replier.Serve()

	boundEndpoint, err := ParseEndpoint(replier.Addr().String())
	if err != nil {
		t.Fatal(err)
	}

	req := NewRequester(boundEndpoint, time.Second, 20*time.Millisecond)
	defer req.Close()

	hang = true
	if _, err := req.Call([]byte("x")); err == nil {
		t.Fatal("expected timeout error")
	}

	hang = false
	reply, err := req.Call([]byte("x"))
	if err != nil {
		t.Fatalf("expected recovery after timeout, got %v", err)
	}
	if string(reply) != "ok" {
		t.Fatalf("reply = %q, want %q", reply, "ok")
	}
}

func TestPublishSubscribe(t *testing.T) {
	endpoint, err := ParseEndpoint("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	pub, err := Bind(endpoint)
	if err != nil {
		t.Fatal(err)
	}
	defer pub.Close()

	boundEndpoint, err := ParseEndpoint(pub.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	sub, err := Dial(boundEndpoint, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Close()

	// Give the publisher's accept loop a moment to register the
	// subscriber before the first publish.
	time.Sleep(50 * time.Millisecond)

	pub.Publish([]byte("event-1"))

	got, err := sub.Recv()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "event-1" {
		t.Fatalf("got %q, want %q", got, "event-1")
	}
}

func TestCloseUnblocksSubscriberReceive(t *testing.T) {
	endpoint, err := ParseEndpoint("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	pub, err := Bind(endpoint)
	if err != nil {
		t.Fatal(err)
	}
	defer pub.Close()

	boundEndpoint, err := ParseEndpoint(pub.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	sub, err := Dial(boundEndpoint, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	result := make(chan error, 1)
	go func() {
		_, err := sub.Recv()
		result <- err
	}()

	time.Sleep(20 * time.Millisecond)
	sub.Close()

	select {
	case err := <-result:
		if err == nil {
			t.Fatal("expected an error unblocking Recv, got nil")
		}
	case <-time.After(time.Second):
		t.Fatal("Recv did not unblock within 1s of Close")
	}
}
