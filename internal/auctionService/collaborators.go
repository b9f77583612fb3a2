package auction

import (
	"fmt"
	"sync"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"
	"auction-engine/utils"
)

// StaticProfileDirectory is an in-memory ProfileDirectory, used when the
// engine runs standalone and in tests. Deployments wire the real
// identity/KYC service behind the same interface.
type StaticProfileDirectory struct {
	mu       sync.RWMutex
	profiles map[string]model.Profile
}

// NewStaticProfileDirectory creates an empty directory
func NewStaticProfileDirectory() *StaticProfileDirectory {
	return &StaticProfileDirectory{profiles: make(map[string]model.Profile)}
}

// Add inserts or replaces a profile
func (d *StaticProfileDirectory) Add(p model.Profile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles[p.UserID] = p
}

// Lookup returns the profile for a user id
func (d *StaticProfileDirectory) Lookup(userID string) (model.Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.profiles[userID]
	if !ok {
		return model.Profile{}, fmt.Errorf("lookup profile %s: %w", userID, auctionerrors.ErrProfileNotFound)
	}
	return p, nil
}

// LogAuditSink writes audit events to the structured log. It stands in for
// the external audit/notification collaborator.
type LogAuditSink struct{}

// Record logs the event with its details
func (LogAuditSink) Record(event string, details map[string]any) {
	fields := map[string]any{"event": event}
	for k, v := range details {
		fields[k] = v
	}
	utils.Info("audit: "+event, fields)
}
