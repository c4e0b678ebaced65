package broadcast

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/wfunc/robotserver/models"
	"github.com/wfunc/robotserver/network"
	"github.com/wfunc/robotserver/session"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct {
	Sent    []network.Event
	SendErr error
	Closed  bool
}

func (m *MockConnection) SendEvent(evt network.Event) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.Sent = append(m.Sent, evt)
	return nil
}
func (m *MockConnection) Close() error                                 { m.Closed = true; return nil }
func (m *MockConnection) RemoteAddr() net.Addr                         { return &net.TCPAddr{} }
func (m *MockConnection) SetReadDeadline(deadline time.Duration) error { return nil }
func (m *MockConnection) NextMessage() error                           { return nil }

func TestBroadcastStateReachesAllWatchers(t *testing.T) {
	manager := session.NewManager()
	connA := &MockConnection{}
	connB := &MockConnection{}
	manager.Add(session.NewSession("a", connA))
	manager.Add(session.NewSession("b", connB))

	b := NewSessionBroadcaster(manager)
	x, y := 2, 3
	facing := "EAST"
	state := models.StateResponse{X: &x, Y: &y, Facing: &facing, IsPlaced: true}

	if err := b.BroadcastState(state); err != nil {
		t.Fatalf("BroadcastState failed: %v", err)
	}

	for name, conn := range map[string]*MockConnection{"a": connA, "b": connB} {
		if len(conn.Sent) != 1 {
			t.Fatalf("watcher %s received %d events, want 1", name, len(conn.Sent))
		}
		evt := conn.Sent[0]
		if evt.Type != network.EventState {
			t.Errorf("watcher %s event type = %q, want %q", name, evt.Type, network.EventState)
		}
		if !evt.State.IsPlaced || evt.State.X == nil || *evt.State.X != 2 {
			t.Errorf("watcher %s got unexpected state: %+v", name, evt.State)
		}
	}
}

func TestBroadcastStateDropsFailedSessions(t *testing.T) {
	manager := session.NewManager()
	healthy := &MockConnection{}
	broken := &MockConnection{SendErr: errors.New("connection reset")}
	manager.Add(session.NewSession("healthy", healthy))
	manager.Add(session.NewSession("broken", broken))

	b := NewSessionBroadcaster(manager)
	if err := b.BroadcastState(models.StateResponse{}); err != nil {
		t.Fatalf("BroadcastState failed: %v", err)
	}

	if _, exists := manager.Get("broken"); exists {
		t.Error("failed session should be removed from the manager")
	}
	if !broken.Closed {
		t.Error("failed session connection should be closed")
	}
	if _, exists := manager.Get("healthy"); !exists {
		t.Error("healthy session should remain")
	}
	if len(healthy.Sent) != 1 {
		t.Errorf("healthy watcher received %d events, want 1", len(healthy.Sent))
	}
}
