package models

import (
	"time"
)

// ContentEntry is the row-oriented key/value form of every persisted
// resource: one opaque JSON document per resource id. The composite document
// and its legacy per-resource mirrors share this table.
type ContentEntry struct {
	Key      string    `json:"key" gorm:"primaryKey;type:text"`
	Document string    `json:"document" gorm:"type:text"`
	CDate    time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	MDate    time.Time `json:"mdate" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}
