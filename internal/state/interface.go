// internal/state/interface.go
package state

import (
	"database/sql"
	"time"

	"github.com/llehouerou/gallery/internal/media"
	"github.com/llehouerou/gallery/internal/playback"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	PositionStore
	DB() *sql.DB
	SaveNavigation(state NavigationState)
	GetNavigation() (*NavigationState, error)
	GetVolume() (*VolumeState, error)
	SaveVolume(volume float64, muted bool) error
	DeletePosition(id media.ID) error
	PrunePositions(before time.Time) (int64, error)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)

var _ playback.Binding = (*positionBinding)(nil)
