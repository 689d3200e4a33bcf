package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/sketch"
)

// Snapshot is an immutable captured canvas state.
type Snapshot struct {
	id        uuid.UUID
	color     sketch.RGBA
	mode      sketch.Mode
	data      []byte
	createdAt time.Time
}

// LoadSnapshot rebuilds a snapshot from persisted fields. data is copied.
// Engine.Commit is the only other way to create one.
func LoadSnapshot(id uuid.UUID, color sketch.RGBA, mode sketch.Mode, data []byte, createdAt time.Time) *Snapshot {
	return &Snapshot{
		id:        id,
		color:     color,
		mode:      mode,
		data:      append([]byte(nil), data...),
		createdAt: createdAt,
	}
}

// ID returns the snapshot identifier.
func (s *Snapshot) ID() uuid.UUID { return s.id }

// Color returns the drawing color active at capture.
func (s *Snapshot) Color() sketch.RGBA { return s.color }

// Mode returns the tool mode active at capture.
func (s *Snapshot) Mode() sketch.Mode { return s.mode }

// CreatedAt returns the capture time.
func (s *Snapshot) CreatedAt() time.Time { return s.createdAt }

// Data returns a copy of the encoded image payload.
func (s *Snapshot) Data() []byte { return append([]byte(nil), s.data...) }

// Size returns the payload length in bytes.
func (s *Snapshot) Size() int { return len(s.data) }
