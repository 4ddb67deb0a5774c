package bot

import (
	"fmt"
	"time"

	"birthdaybot/discordutils"
)

const dayKey = "2006-01-02"

// Greeter announces the day's birthday children once per local calendar day.
// Best effort: a restart near midnight may skip or repeat a day's run.
func (bot *Bot) Greeter(ticker *time.Ticker, done chan bool) {
	last := time.Now().Format(dayKey)
	for {
		select {
		case <-done:
			bot.log.Info().Msg("Stopped greeter.")
			return
		case now := <-ticker.C:
			day := now.Format(dayKey)
			if day == last {
				continue
			}
			last = day
			bot.AnnounceBirthdays(now)
		}
	}
}

// AnnounceBirthdays runs the daily matcher and posts one greeting per
// birthday child. A failed send is logged and does not stop the rest.
func (bot *Bot) AnnounceBirthdays(now time.Time) {
	children, err := bot.matcher.FindTodaysBirthdays(now)
	if err != nil {
		bot.log.Error().Err(err).Msg("Failed to find today's birthday children.")
		return
	}

	bot.log.Info().Int("count", len(children)).Msg("Announcing birthdays.")

	for _, child := range children {
		var message string
		if child.AgeKnown {
			message = fmt.Sprintf("<@%d> is now %d years old! Congratulations!", child.PersonID, child.Age)
		} else {
			message = fmt.Sprintf("It's <@%d>'s birthday today! Congratulations!", child.PersonID)
		}

		_, err := bot.session.ChannelMessageSend(
			discordutils.FormatSnowflake(child.ChannelID),
			message,
		)
		if err != nil {
			bot.log.Error().Err(err).
				Int64("person", child.PersonID).
				Int64("channel", child.ChannelID).
				Msg("Failed to send birthday greeting.")
		}
	}
}
