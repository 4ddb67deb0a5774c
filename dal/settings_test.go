package dal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"birthdaybot/models"
)

func TestSettings_SetChannelKeepsListMessage(t *testing.T) {
	db := SetupTestDB(t)
	settings := NewSettings(db)

	require.NoError(t, settings.SetChannel(testGuild, 500))
	require.NoError(t, settings.SetListMessage(testGuild, 500, 99))

	// changing the channel must not disturb the stored pointer
	require.NoError(t, settings.SetChannel(testGuild, 600))

	channelID, messageID, ok, err := settings.GetListMessage(testGuild)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(500), channelID)
	assert.Equal(t, int64(99), messageID)

	var row models.GuildSettings
	require.NoError(t, db.Where("guild_id = ?", testGuild).Take(&row).Error)
	require.NotNil(t, row.ChannelID)
	assert.Equal(t, int64(600), *row.ChannelID)
}

func TestSettings_SetListMessageCreatesRow(t *testing.T) {
	settings := NewSettings(SetupTestDB(t))

	// no prior set-channel call; the row is created lazily
	require.NoError(t, settings.SetListMessage(testGuild, 500, 99))

	channelID, messageID, ok, err := settings.GetListMessage(testGuild)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(500), channelID)
	assert.Equal(t, int64(99), messageID)
}

func TestSettings_ClearListMessage(t *testing.T) {
	settings := NewSettings(SetupTestDB(t))

	require.NoError(t, settings.SetListMessage(testGuild, 500, 99))
	require.NoError(t, settings.ClearListMessage(testGuild))

	_, _, ok, err := settings.GetListMessage(testGuild)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSettings_ClearListMessageIsGuildScoped(t *testing.T) {
	settings := NewSettings(SetupTestDB(t))

	require.NoError(t, settings.SetListMessage(testGuild, 500, 99))
	require.NoError(t, settings.SetListMessage(testOtherGuild, 700, 88))

	require.NoError(t, settings.ClearListMessage(testGuild))

	_, _, ok, err := settings.GetListMessage(testGuild)
	require.NoError(t, err)
	assert.False(t, ok)

	channelID, messageID, ok, err := settings.GetListMessage(testOtherGuild)
	require.NoError(t, err)
	require.True(t, ok, "Clearing one guild's pointer must not touch another guild")
	assert.Equal(t, int64(700), channelID)
	assert.Equal(t, int64(88), messageID)
}

func TestSettings_GetListMessageWithoutRow(t *testing.T) {
	settings := NewSettings(SetupTestDB(t))

	_, _, ok, err := settings.GetListMessage(testGuild)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSettings_DeleteGuild(t *testing.T) {
	settings := NewSettings(SetupTestDB(t))

	require.NoError(t, settings.SetChannel(testGuild, 500))
	require.NoError(t, settings.SetListMessage(testGuild, 500, 99))

	removed, err := settings.DeleteGuild(testGuild)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = settings.DeleteGuild(testGuild)
	require.NoError(t, err)
	assert.False(t, removed)

	// a fresh row after deletion carries no stale list-message pointer
	require.NoError(t, settings.SetChannel(testGuild, 600))

	_, _, ok, err := settings.GetListMessage(testGuild)
	require.NoError(t, err)
	assert.False(t, ok)
}
