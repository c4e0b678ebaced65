// broadcast/broadcast.go
package broadcast

import (
	"github.com/wfunc/robotserver/models"
	"github.com/wfunc/robotserver/network"
	"github.com/wfunc/robotserver/session"
)

// Broadcaster pushes robot state snapshots to every connected watcher.
type Broadcaster interface {
	BroadcastState(state models.StateResponse) error
}

// SessionBroadcaster fans state events out over the session manager. Sessions
// whose connection fails are dropped on the spot.
type SessionBroadcaster struct {
	sessions *session.Manager
}

func NewSessionBroadcaster(sessions *session.Manager) *SessionBroadcaster {
	return &SessionBroadcaster{sessions: sessions}
}

func (b *SessionBroadcaster) BroadcastState(state models.StateResponse) error {
	evt := network.Event{Type: network.EventState, State: state}

	for _, s := range b.sessions.All() {
		if err := s.SendEvent(evt); err != nil {
			b.sessions.Remove(s.GetID())
			s.Close()
			continue
		}
	}
	return nil
}
