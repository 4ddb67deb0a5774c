package dal

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"birthdaybot/dates"
	"birthdaybot/models"
)

// Registry is the durable store of per-guild birthday records. Every call is
// a single independent round trip; concurrent upserts for the same member
// serialize in the database, last writer wins.
type Registry struct {
	db *gorm.DB
}

func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// Upsert creates or replaces the birthday stored for a member in a guild.
func (r *Registry) Upsert(personID, guildID int64, date dates.Date) error {
	record := models.NewBirthday(personID, guildID, date)
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "person_id"}, {Name: "guild_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"year", "month", "day"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("upsert birthday: %w", err)
	}
	return nil
}

// Get returns the birthday stored for a member in a guild, if any.
func (r *Registry) Get(personID, guildID int64) (models.Birthday, bool, error) {
	var record models.Birthday
	err := r.db.
		Where("person_id = ? AND guild_id = ?", personID, guildID).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Birthday{}, false, nil
	}
	if err != nil {
		return models.Birthday{}, false, fmt.Errorf("get birthday: %w", err)
	}
	return record, true, nil
}

// Delete removes a member's birthday. It reports whether a record existed.
func (r *Registry) Delete(personID, guildID int64) (bool, error) {
	result := r.db.
		Where("person_id = ? AND guild_id = ?", personID, guildID).
		Delete(&models.Birthday{})
	if result.Error != nil {
		return false, fmt.Errorf("delete birthday: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteAll removes every birthday stored for a guild. It reports whether
// any records existed.
func (r *Registry) DeleteAll(guildID int64) (bool, error) {
	result := r.db.
		Where("guild_id = ?", guildID).
		Delete(&models.Birthday{})
	if result.Error != nil {
		return false, fmt.Errorf("delete guild birthdays: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListAll returns a guild's birthdays in calendar order, so a rendered list
// reads like a yearly calendar.
func (r *Registry) ListAll(guildID int64) ([]models.Birthday, error) {
	var records []models.Birthday
	err := r.db.
		Where("guild_id = ?", guildID).
		Order("month, day, person_id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list birthdays: %w", err)
	}
	return records, nil
}
