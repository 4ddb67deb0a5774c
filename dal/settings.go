package dal

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"birthdaybot/models"
)

// Settings is the durable store of per-guild notification settings.
type Settings struct {
	db *gorm.DB
}

func NewSettings(db *gorm.DB) *Settings {
	return &Settings{db: db}
}

// SetChannel creates or updates a guild's greeting channel. The list-message
// pointers are left untouched.
func (s *Settings) SetChannel(guildID, channelID int64) error {
	row := models.GuildSettings{GuildID: guildID, ChannelID: &channelID}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"channel_id"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("set greeting channel: %w", err)
	}
	return nil
}

// SetListMessage stores the pointer to the standing birthday list message.
// Both pointer columns are written in one statement.
func (s *Settings) SetListMessage(guildID, channelID, messageID int64) error {
	row := models.GuildSettings{
		GuildID:       guildID,
		ListChannelID: &channelID,
		ListMessageID: &messageID,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"list_channel_id", "list_message_id"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("set list message: %w", err)
	}
	return nil
}

// ClearListMessage unsets both list-message pointers for the guild, used when
// the referenced message no longer exists.
func (s *Settings) ClearListMessage(guildID int64) error {
	err := s.db.Model(&models.GuildSettings{}).
		Where("guild_id = ?", guildID).
		Updates(map[string]interface{}{
			"list_channel_id": nil,
			"list_message_id": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("clear list message: %w", err)
	}
	return nil
}

// GetListMessage returns the standing list message pointer for a guild. ok is
// false when the guild has no settings row or no list message is stored.
func (s *Settings) GetListMessage(guildID int64) (channelID, messageID int64, ok bool, err error) {
	var row models.GuildSettings
	err = s.db.Where("guild_id = ?", guildID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("get list message: %w", err)
	}
	if row.ListChannelID == nil || row.ListMessageID == nil {
		return 0, 0, false, nil
	}
	return *row.ListChannelID, *row.ListMessageID, true, nil
}

// DeleteGuild removes a guild's settings row. It reports whether a row
// existed.
func (s *Settings) DeleteGuild(guildID int64) (bool, error) {
	result := s.db.
		Where("guild_id = ?", guildID).
		Delete(&models.GuildSettings{})
	if result.Error != nil {
		return false, fmt.Errorf("delete guild settings: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
