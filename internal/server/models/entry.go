// Package models holds the persisted entities of QR Foundry: logical
// entries, resolver tokens and scan records.
package models

import "time"

// Mode selects which Entry fields are authoritative for content
// computation. There is no implicit fallback between modes.
type Mode string

const (
	ModeURL    Mode = "URL"
	ModeValue  Mode = "Value"
	ModeManual Mode = "Manual"
)

// LinkType is only meaningful when Mode is URL.
type LinkType string

const (
	LinkDirect LinkType = "Direct"
	LinkToken  LinkType = "Token"
)

// Entry is a user-configured source of encodable content.
//
// ComputedContent is derived: it is overwritten on every successful
// compute call and must never be hand-edited.
type Entry struct {
	ID       string
	Mode     Mode
	LinkType LinkType

	// URL mode: either an explicit route/URL, or a (type, id, action)
	// reference a route is derived from.
	CustomRoute  string
	TargetURL    string
	TargetType   string
	TargetID     string
	TargetAction string

	// Value mode: field read verbatim from the referenced record.
	SourceType  string
	SourceID    string
	SourceField string

	// Manual mode.
	ManualContent string

	LabelText       string
	ComputedContent string

	CreatedAt time.Time
	UpdatedAt time.Time
}
