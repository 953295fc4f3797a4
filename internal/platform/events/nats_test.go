package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

func startTestNATS(t *testing.T) string {
	t.Helper()
	srv, err := natsserver.NewServer(&natsserver.Options{Host: "127.0.0.1", Port: -1})
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func TestNATSPublisher_Publish(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 4)
	sub, err := nc.ChanSubscribe("casework.note.*", ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	ctx := context.Background()
	if err := pub.Publish(ctx, TopicNoteCreated, NoteChanged{NoteID: "n1", ClientID: "c1", UserID: "worker-2"}); err != nil {
		t.Fatalf("publish created: %v", err)
	}
	if err := pub.Publish(ctx, TopicReminderCompleted, ReminderCompleted{ReminderID: "r1"}); err != nil {
		t.Fatalf("publish reminder: %v", err)
	}
	if err := pub.Publish(ctx, TopicNoteDeleted, NoteChanged{NoteID: "n1"}); err != nil {
		t.Fatalf("publish deleted: %v", err)
	}
	pub.conn.Flush()

	var got []string
	for len(got) < 2 {
		select {
		case msg := <-ch:
			var ev NoteChanged
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if ev.NoteID != "n1" {
				t.Errorf("unexpected payload %s", msg.Data)
			}
			got = append(got, msg.Subject)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for note events, got %v", got)
		}
	}
	if got[0] != TopicNoteCreated || got[1] != TopicNoteDeleted {
		t.Errorf("unexpected subjects %v", got)
	}
	select {
	case msg := <-ch:
		t.Errorf("reminder event leaked onto note wildcard: %s", msg.Subject)
	default:
	}
}

func TestNATSPublisher_PublishUnmarshalable(t *testing.T) {
	pub, err := NewNATSPublisher(startTestNATS(t))
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	if err := pub.Publish(context.Background(), TopicNoteCreated, make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestNATSPublisher_CloseDrains(t *testing.T) {
	pub, err := NewNATSPublisher(startTestNATS(t))
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !pub.conn.IsClosed() {
		if time.Now().After(deadline) {
			t.Fatal("connection not closed after drain")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err := pub.Publish(context.Background(), TopicNoteCreated, NoteChanged{}); err == nil {
		t.Error("expected error publishing after close")
	}
}

func TestNewNATSPublisher_Unreachable(t *testing.T) {
	if _, err := NewNATSPublisher("nats://127.0.0.1:1", nats.Timeout(200*time.Millisecond)); err == nil {
		t.Fatal("expected connect error")
	}
}
