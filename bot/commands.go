package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"

	"birthdaybot/dates"
	"birthdaybot/discordutils"
	"birthdaybot/models"
)

const (
	forgetAllWindow = 30 * time.Second
	confirmEmoji    = "👍"
)

// BirthdaySet saves the invoking member's birthday.
func (bot *Bot) BirthdaySet(i *discordgo.InteractionCreate) {
	discordutils.AckInteraction(i.Interaction, bot.session)

	personID, guildID, ok := bot.interactionIDs(i)
	if !ok {
		return
	}

	text := i.ApplicationCommandData().Options[0].StringValue()
	date, err := bot.normalizer.Parse(text, time.Now())

	var reply string
	var parseErr *dates.ParseError
	switch {
	case errors.As(err, &parseErr):
		reply = fmt.Sprintf("Sorry, but %q isn't a date I recognize.", text)
	case err != nil:
		bot.log.Error().Err(err).Msg("Failed to parse date.")
		reply = "Sorry, but something went wrong. Please try again."
	default:
		if err := bot.registry.Upsert(personID, guildID, date); err != nil {
			bot.log.Error().Err(err).Int64("person", personID).Msg("Failed to save birthday.")
			reply = "Sorry, but I couldn't save that. Please try again."
		} else {
			reply = fmt.Sprintf(
				"Save the date! %v's birthday is on %v.",
				i.Member.Mention(),
				bot.normalizer.Format(date),
			)
			bot.refreshListMessage(guildID)
		}
	}

	bot.followup(i, reply)
}

// BirthdayLookup looks up a member's stored birthday.
func (bot *Bot) BirthdayLookup(i *discordgo.InteractionCreate) {
	discordutils.AckInteraction(i.Interaction, bot.session)

	_, guildID, ok := bot.interactionIDs(i)
	if !ok {
		return
	}

	var user *discordgo.User
	if options := i.ApplicationCommandData().Options; len(options) > 0 {
		user = options[0].UserValue(nil)
	} else {
		user = i.Member.User
	}

	personID, err := discordutils.ParseSnowflake(user.ID)
	if err != nil {
		bot.followup(i, "Sorry, but I can't look that user up.")
		return
	}

	var reply string
	record, found, err := bot.registry.Get(personID, guildID)
	switch {
	case err != nil:
		bot.log.Error().Err(err).Int64("person", personID).Msg("Failed to look up birthday.")
		reply = "Sorry, but something went wrong. Please try again."
	case !found:
		reply = fmt.Sprintf(
			"%v hasn't told me their birthday yet.",
			user.Mention(),
		)
	default:
		reply = fmt.Sprintf(
			"I've got %v's birthday down as %v.",
			user.Mention(),
			bot.normalizer.Format(record.Date()),
		)
	}

	bot.followup(i, reply)
}

// BirthdayNext announces the next upcoming birthday in the guild.
func (bot *Bot) BirthdayNext(i *discordgo.InteractionCreate) {
	discordutils.AckInteraction(i.Interaction, bot.session)

	_, guildID, ok := bot.interactionIDs(i)
	if !ok {
		return
	}

	records, err := bot.registry.ListAll(guildID)
	if err != nil {
		bot.log.Error().Err(err).Int64("guild", guildID).Msg("Failed to list birthdays.")
		bot.followup(i, "Sorry, but something went wrong. Please try again.")
		return
	}
	if len(records) == 0 {
		bot.followup(i, "I don't know any birthdays here yet. Tell me some!")
		return
	}

	now := time.Now()
	var next models.Birthday
	var nextDay time.Time
	for index, record := range records {
		day := record.Date().NextOccurrence(now)
		if index == 0 || day.Before(nextDay) {
			next = record
			nextDay = day
		}
	}

	relative := humanize.Time(nextDay)
	if nextDay.Month() == now.Month() && nextDay.Day() == now.Day() && nextDay.Year() == now.Year() {
		relative = "today"
	}

	day := dates.Date{Month: nextDay.Month(), Day: nextDay.Day()}
	bot.followup(i, fmt.Sprintf(
		"The next birthday is <@%d>'s on %v, %v.",
		next.PersonID,
		bot.normalizer.Format(day),
		relative,
	))
}

// BirthdayForget removes the invoking member's birthday.
func (bot *Bot) BirthdayForget(i *discordgo.InteractionCreate) {
	discordutils.AckInteraction(i.Interaction, bot.session)

	personID, guildID, ok := bot.interactionIDs(i)
	if !ok {
		return
	}

	var reply string
	removed, err := bot.registry.Delete(personID, guildID)
	switch {
	case err != nil:
		bot.log.Error().Err(err).Int64("person", personID).Msg("Failed to delete birthday.")
		reply = "Sorry, but something went wrong. Please try again."
	case !removed:
		reply = "I don't have your birthday on record. Isn't that a lovely coincidence?"
	default:
		reply = fmt.Sprintf(
			"%v, I have forgotten your birthday. Do you even have one?",
			i.Member.Mention(),
		)
		bot.refreshListMessage(guildID)
	}

	bot.followup(i, reply)
}

// BirthdayList posts the birthday list and stores its message pointer so
// later refreshes edit it in place instead of re-posting.
func (bot *Bot) BirthdayList(i *discordgo.InteractionCreate) {
	discordutils.AckInteraction(i.Interaction, bot.session)

	_, guildID, ok := bot.interactionIDs(i)
	if !ok {
		return
	}
	if !discordutils.MemberIsAdmin(i.Member) {
		bot.followup(i, "Nice try.")
		return
	}

	content, err := bot.renderList(guildID)
	if err != nil {
		bot.log.Error().Err(err).Int64("guild", guildID).Msg("Failed to render birthday list.")
		bot.followup(i, "Sorry, but something went wrong. Please try again.")
		return
	}

	channelID, messageID, stored, err := bot.settings.GetListMessage(guildID)
	if err != nil {
		bot.log.Error().Err(err).Int64("guild", guildID).Msg("Failed to load list message pointer.")
		bot.followup(i, "Sorry, but something went wrong. Please try again.")
		return
	}

	if stored {
		_, err := bot.session.ChannelMessageEdit(
			discordutils.FormatSnowflake(channelID),
			discordutils.FormatSnowflake(messageID),
			content,
		)
		if err == nil {
			bot.followup(i, "I've brought the birthday list up to date.")
			return
		}
		// the stored message is gone; drop the pointer and post anew
		if err := bot.settings.ClearListMessage(guildID); err != nil {
			bot.log.Error().Err(err).Int64("guild", guildID).Msg("Failed to clear list message pointer.")
		}
	}

	message, err := bot.session.ChannelMessageSend(i.ChannelID, content)
	if err != nil {
		bot.log.Error().Err(err).Int64("guild", guildID).Msg("Failed to post birthday list.")
		bot.followup(i, "Sorry, but I couldn't post the list here.")
		return
	}

	listChannelID, err1 := discordutils.ParseSnowflake(message.ChannelID)
	listMessageID, err2 := discordutils.ParseSnowflake(message.ID)
	if err1 == nil && err2 == nil {
		if err := bot.settings.SetListMessage(guildID, listChannelID, listMessageID); err != nil {
			bot.log.Error().Err(err).Int64("guild", guildID).Msg("Failed to store list message pointer.")
		}
	}

	bot.followup(i, "There you go. I'll keep that list up to date.")
}

// BirthdayChannel sets the guild's greeting channel.
func (bot *Bot) BirthdayChannel(i *discordgo.InteractionCreate) {
	discordutils.AckInteraction(i.Interaction, bot.session)

	_, guildID, ok := bot.interactionIDs(i)
	if !ok {
		return
	}
	if !discordutils.MemberIsAdmin(i.Member) {
		bot.followup(i, "Nice try.")
		return
	}

	channel := i.ApplicationCommandData().Options[0].ChannelValue(nil)
	channelID, err := discordutils.ParseSnowflake(channel.ID)
	if err != nil {
		bot.followup(i, "Sorry, but I can't use that channel.")
		return
	}

	if err := bot.settings.SetChannel(guildID, channelID); err != nil {
		bot.log.Error().Err(err).Int64("guild", guildID).Msg("Failed to set greeting channel.")
		bot.followup(i, "Sorry, but something went wrong. Please try again.")
		return
	}

	bot.followup(i, fmt.Sprintf(
		"Alright. All birthday greetings will be posted in %v now.",
		channel.Mention(),
	))
}

// BirthdayForgetAll deletes every birthday in the guild after the invoker
// confirms with a reaction within a fixed window.
func (bot *Bot) BirthdayForgetAll(i *discordgo.InteractionCreate) {
	discordutils.AckInteraction(i.Interaction, bot.session)

	_, guildID, ok := bot.interactionIDs(i)
	if !ok {
		return
	}
	if !discordutils.MemberIsAdmin(i.Member) {
		bot.followup(i, "Nice try.")
		return
	}

	prompt, err := discordutils.SendFollowup(
		"Do you really want to delete all birthdays? This cannot be undone! "+
			"React with "+confirmEmoji+" to confirm.",
		i.Interaction,
		bot.session,
	)
	if err != nil {
		bot.log.Error().Err(err).Int64("guild", guildID).Msg("Failed to send confirmation prompt.")
		return
	}
	bot.session.MessageReactionAdd(prompt.ChannelID, prompt.ID, confirmEmoji)

	invokerID := i.Member.User.ID
	confirmed := make(chan struct{}, 1)
	remove := bot.session.AddHandler(func(
		_ *discordgo.Session,
		r *discordgo.MessageReactionAdd,
	) {
		if r.MessageID == prompt.ID &&
			r.UserID == invokerID &&
			r.Emoji.Name == confirmEmoji {
			select {
			case confirmed <- struct{}{}:
			default:
			}
		}
	})
	defer remove()

	select {
	case <-confirmed:
		if _, err := bot.registry.DeleteAll(guildID); err != nil {
			bot.log.Error().Err(err).Int64("guild", guildID).Msg("Failed to delete guild birthdays.")
			bot.followup(i, "Sorry, but something went wrong. Please try again.")
			return
		}
		bot.refreshListMessage(guildID)
		bot.followup(i, "I have forgotten all your birthdays. Tell me some!")
	case <-time.After(forgetAllWindow):
		bot.followup(i, "You didn't react in time. I'll just forget about that.")
	}
}

// renderList renders a guild's birthdays in calendar order.
func (bot *Bot) renderList(guildID int64) (string, error) {
	records, err := bot.registry.ListAll(guildID)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "I don't know any birthdays here yet. Tell me some!", nil
	}

	var sb strings.Builder
	sb.WriteString("These are all birthdays I know:\n")
	for _, record := range records {
		fmt.Fprintf(&sb, "%v - <@%d>\n", bot.normalizer.Format(record.Date()), record.PersonID)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// refreshListMessage re-renders the standing list message if one is stored.
// Best effort: a vanished message drops the pointer, other failures are
// logged and left for the next refresh.
func (bot *Bot) refreshListMessage(guildID int64) {
	channelID, messageID, stored, err := bot.settings.GetListMessage(guildID)
	if err != nil {
		bot.log.Error().Err(err).Int64("guild", guildID).Msg("Failed to load list message pointer.")
		return
	}
	if !stored {
		return
	}

	content, err := bot.renderList(guildID)
	if err != nil {
		bot.log.Error().Err(err).Int64("guild", guildID).Msg("Failed to render birthday list.")
		return
	}

	_, err = bot.session.ChannelMessageEdit(
		discordutils.FormatSnowflake(channelID),
		discordutils.FormatSnowflake(messageID),
		content,
	)
	if err != nil {
		bot.log.Warn().Err(err).Int64("guild", guildID).Msg("List message is gone, dropping the pointer.")
		if err := bot.settings.ClearListMessage(guildID); err != nil {
			bot.log.Error().Err(err).Int64("guild", guildID).Msg("Failed to clear list message pointer.")
		}
	}
}

// interactionIDs resolves the numeric member and guild IDs of an interaction.
// Returns ok false (after replying) for interactions outside a guild.
func (bot *Bot) interactionIDs(i *discordgo.InteractionCreate) (personID, guildID int64, ok bool) {
	if i.Member == nil || i.Member.User == nil || i.GuildID == "" {
		bot.followup(i, "This only works on a server.")
		return 0, 0, false
	}

	personID, err1 := discordutils.ParseSnowflake(i.Member.User.ID)
	guildID, err2 := discordutils.ParseSnowflake(i.GuildID)
	if err1 != nil || err2 != nil {
		bot.followup(i, "Sorry, but something went wrong. Please try again.")
		return 0, 0, false
	}
	return personID, guildID, true
}

func (bot *Bot) followup(i *discordgo.InteractionCreate, content string) {
	if _, err := discordutils.SendFollowup(content, i.Interaction, bot.session); err != nil {
		bot.log.Error().Err(err).Msg("Failed to send followup message.")
	}
}
