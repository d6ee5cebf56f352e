// Package session keeps per-file pipeline state in memory.
package session

import (
	"time"

	"github.com/wdm0006/datasweeper/pkg/export"
	"github.com/wdm0006/datasweeper/pkg/format"
	"github.com/wdm0006/datasweeper/pkg/table"
)

// Session is one uploaded file moving through the pipeline.
type Session struct {
	ID        string
	Name      string
	Size      int64
	Format    format.Format
	State     State
	Table     *table.Table
	Artifact  *export.Artifact
	Err       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Apply moves the session along ev. Cleaning drops any artifact, since it
// no longer matches the table.
func (s *Session) Apply(ev Event) error {
	next, err := s.State.Next(ev)
	if err != nil {
		return err
	}
	if ev == EventClean {
		s.Artifact = nil
	}
	s.State = next
	return nil
}
