package domain

import (
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrNotOwner      = errors.New("only the profile owner may do that")
	ErrSlotNotFound  = errors.New("availability slot not found")
	ErrEmptySkillSet = errors.New("at least one skill is required")
)

// Profile is a member of the swap pool. Karma is mutated only through
// the karma ledger; everything else belongs to the owning user.
type Profile struct {
	ID             string `gorm:"primaryKey"`
	Email          string `gorm:"uniqueIndex"`
	Name           string
	Handle         string
	Karma          int                         `gorm:"not null;default:0"`
	SkillsTeaching datatypes.JSONSlice[string] `json:"skillsTeaching"`
	SkillsLearning datatypes.JSONSlice[string] `json:"skillsLearning"`
	Availability   []AvailabilitySlot          `gorm:"foreignKey:ProfileID"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AvailabilitySlot is one bookable (day, time) entry published by a
// profile owner. The id stays stable across edits of other slots.
type AvailabilitySlot struct {
	ID        string `gorm:"primaryKey"`
	ProfileID string `gorm:"index"`
	Day       string // e.g. "Monday"
	Time      string // e.g. "18:00"
	CreatedAt time.Time
}

// MergeSkills unions two label lists, dropping duplicates
// case-insensitively while keeping the first-seen casing for display.
func MergeSkills(existing, incoming []string) []string {
	out := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, s := range append(append([]string{}, existing...), incoming...) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
