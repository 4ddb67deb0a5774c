package dal

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"birthdaybot/dates"
	"birthdaybot/models"
)

// BirthdayChild is one member whose birthday falls on the matched day,
// resolved to their guild's greeting channel.
type BirthdayChild struct {
	PersonID  int64
	ChannelID int64
	Age       int
	AgeKnown  bool
}

// Matcher computes the day's birthday children across all guilds.
type Matcher struct {
	db *gorm.DB
}

func NewMatcher(db *gorm.DB) *Matcher {
	return &Matcher{db: db}
}

// FindTodaysBirthdays returns every member whose stored month/day matches
// today, in every guild that has a greeting channel configured. The result is
// ordered by channel so the caller can group greetings per channel. This is a
// pure read. February 29 birthdays are matched on March 1 in non-leap years.
func (m *Matcher) FindTodaysBirthdays(today time.Time) ([]BirthdayChild, error) {
	var rows []struct {
		PersonID  int64
		Year      int
		Month     int
		Day       int
		ChannelID int64
	}

	query := m.db.Table("birthdays").
		Select("birthdays.person_id, birthdays.year, birthdays.month, birthdays.day, guild_settings.channel_id").
		Joins("JOIN guild_settings ON guild_settings.guild_id = birthdays.guild_id").
		Where("guild_settings.channel_id IS NOT NULL")

	month, day := int(today.Month()), today.Day()
	if month == 3 && day == 1 && !dates.IsLeapYear(today.Year()) {
		query = query.Where(
			"(birthdays.month = 3 AND birthdays.day = 1) OR (birthdays.month = 2 AND birthdays.day = 29)",
		)
	} else {
		query = query.Where("birthdays.month = ? AND birthdays.day = ?", month, day)
	}

	err := query.
		Order("guild_settings.channel_id, birthdays.person_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find birthday children: %w", err)
	}

	children := make([]BirthdayChild, 0, len(rows))
	for _, row := range rows {
		record := models.Birthday{Year: row.Year, Month: row.Month, Day: row.Day}
		child := BirthdayChild{PersonID: row.PersonID, ChannelID: row.ChannelID}
		child.Age, child.AgeKnown = record.Date().Age(today)
		children = append(children, child)
	}
	return children, nil
}
