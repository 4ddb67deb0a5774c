package bot

import (
	"github.com/bwmarrin/discordgo"

	"birthdaybot/discordutils"
)

// handleGuildDelete cleans up after the bot is removed from a guild. The
// settings row and the birthday records are two independent best-effort
// deletions.
func (bot *Bot) handleGuildDelete(_ *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		// a guild outage, not a removal
		return
	}

	guildID, err := discordutils.ParseSnowflake(g.ID)
	if err != nil {
		bot.log.Error().Err(err).Str("guild", g.ID).Msg("Unrecognized guild ID on removal.")
		return
	}

	if _, err := bot.settings.DeleteGuild(guildID); err != nil {
		bot.log.Error().Err(err).Int64("guild", guildID).Msg("Failed to delete guild settings.")
	}
	if _, err := bot.registry.DeleteAll(guildID); err != nil {
		bot.log.Error().Err(err).Int64("guild", guildID).Msg("Failed to delete guild birthdays.")
	}

	bot.log.Info().Int64("guild", guildID).Msg("Left guild, records removed.")
}

// handleMemberRemove deletes a member's birthday when they leave the guild.
func (bot *Bot) handleMemberRemove(_ *discordgo.Session, m *discordgo.GuildMemberRemove) {
	personID, err1 := discordutils.ParseSnowflake(m.User.ID)
	guildID, err2 := discordutils.ParseSnowflake(m.GuildID)
	if err1 != nil || err2 != nil {
		return
	}

	if _, err := bot.registry.Delete(personID, guildID); err != nil {
		bot.log.Error().Err(err).
			Int64("person", personID).
			Int64("guild", guildID).
			Msg("Failed to delete birthday of departed member.")
	}
}
