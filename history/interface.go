// history/interface.go
package history

import (
	"fmt"

	"github.com/wfunc/robotserver/models"
)

// Store is the command journal. Append records one executed command; Recent
// returns up to limit entries, newest first.
type Store interface {
	Append(rec models.CommandRecord) error
	Recent(limit int) ([]models.CommandRecord, error)
	Close() error
}

var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
