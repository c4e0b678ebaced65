package session

import (
	"net"
	"testing"
	"time"

	"github.com/wfunc/robotserver/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct {
	Sent   []network.Event
	Closed bool
}

func (m *MockConnection) SendEvent(evt network.Event) error            { m.Sent = append(m.Sent, evt); return nil }
func (m *MockConnection) Close() error                                 { m.Closed = true; return nil }
func (m *MockConnection) RemoteAddr() net.Addr                         { return &net.TCPAddr{} }
func (m *MockConnection) SetReadDeadline(deadline time.Duration) error { return nil }
func (m *MockConnection) NextMessage() error                           { return nil }

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "watcher_1"
	sess := NewSession(sessionID, &MockConnection{})

	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	retrieved, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrieved != sess {
		t.Fatal("Get should return the same session instance")
	}

	manager.Remove(sessionID)
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}

	if _, exists = manager.Get(sessionID); exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestManager_All(t *testing.T) {
	manager := NewManager()
	manager.Add(NewSession("a", &MockConnection{}))
	manager.Add(NewSession("b", &MockConnection{}))

	all := manager.All()
	if len(all) != 2 {
		t.Fatalf("All returned %d sessions, want 2", len(all))
	}
}

func TestSession_SendEventTouches(t *testing.T) {
	conn := &MockConnection{}
	sess := NewSession("watcher", conn)
	before := sess.LastActive()

	time.Sleep(time.Millisecond)
	if err := sess.SendEvent(network.Event{Type: network.EventState}); err != nil {
		t.Fatalf("SendEvent failed: %v", err)
	}

	if len(conn.Sent) != 1 {
		t.Fatalf("Expected 1 sent event, got %d", len(conn.Sent))
	}
	if !sess.LastActive().After(before) {
		t.Error("SendEvent should refresh LastActive")
	}
}

func TestManager_SweepIdle(t *testing.T) {
	manager := NewManager()

	staleConn := &MockConnection{}
	stale := NewSession("stale", staleConn)
	stale.mutex.Lock()
	stale.lastActive = time.Now().Add(-time.Hour)
	stale.mutex.Unlock()

	fresh := NewSession("fresh", &MockConnection{})

	manager.Add(stale)
	manager.Add(fresh)

	dropped := manager.SweepIdle(time.Minute)
	if dropped != 1 {
		t.Fatalf("SweepIdle dropped %d sessions, want 1", dropped)
	}
	if !staleConn.Closed {
		t.Error("SweepIdle should close the stale connection")
	}
	if _, exists := manager.Get("stale"); exists {
		t.Error("stale session should be removed")
	}
	if _, exists := manager.Get("fresh"); !exists {
		t.Error("fresh session should survive the sweep")
	}
}
