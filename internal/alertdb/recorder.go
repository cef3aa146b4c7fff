package alertdb

import (
	"time"

	"github.com/smartcap-data/wayguard/internal/alert"
	"github.com/smartcap-data/wayguard/internal/monitoring"
)

// Recorder adapts AlertDB to the scheduler's recorder hooks. Write failures
// are logged and swallowed: persistence must never stall or fail a cycle.
type Recorder struct {
	db *AlertDB
}

func NewRecorder(db *AlertDB) *Recorder {
	return &Recorder{db: db}
}

func (r *Recorder) RecordAnnouncement(ev alert.AnnouncementEvent) {
	err := r.db.InsertAnnouncement(AnnouncementRow{
		AnnouncedAt: ev.Time,
		ObjectKey:   ev.Key,
		Class:       ev.Class,
		Message:     ev.Text,
		Priority:    string(ev.Priority),
		Score:       ev.Score,
		Dispatched:  ev.Dispatched,
	})
	if err != nil {
		monitoring.Logf("alertdb: dropping announcement record: %v", err)
	}
}

func (r *Recorder) RecordEviction(key, class string, lastSeen, evictedAt time.Time) {
	if err := r.db.InsertEviction(key, class, lastSeen, evictedAt); err != nil {
		monitoring.Logf("alertdb: dropping eviction record: %v", err)
	}
}
