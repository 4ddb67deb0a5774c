package models

import (
	"time"

	"birthdaybot/dates"
)

// Birthday is one member's stored birthday within one guild. A member has at
// most one birthday per guild. Year is zero when the member never stated the
// year; only Month and Day are meaningful then.
type Birthday struct {
	PersonID int64 `gorm:"primaryKey;autoIncrement:false"`
	GuildID  int64 `gorm:"primaryKey;autoIncrement:false"`
	Year     int
	Month    int
	Day      int
}

// NewBirthday builds a record for the given member and date.
func NewBirthday(personID, guildID int64, d dates.Date) Birthday {
	b := Birthday{
		PersonID: personID,
		GuildID:  guildID,
		Month:    int(d.Month),
		Day:      d.Day,
	}
	if d.YearKnown {
		b.Year = d.Year
	}
	return b
}

// Date returns the stored birthday as a calendar date.
func (b Birthday) Date() dates.Date {
	return dates.Date{
		Year:      b.Year,
		Month:     time.Month(b.Month),
		Day:       b.Day,
		YearKnown: b.Year > 0,
	}
}

// GuildSettings holds a guild's greeting channel and, when a birthday list
// message has been posted, the pointer used to edit it in place. The two
// list pointers are always set and cleared together.
type GuildSettings struct {
	GuildID       int64 `gorm:"primaryKey;autoIncrement:false"`
	ChannelID     *int64
	ListChannelID *int64
	ListMessageID *int64
}
