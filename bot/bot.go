package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"birthdaybot/dal"
	"birthdaybot/dates"
)

type commandHandler = func(*discordgo.InteractionCreate)

var botCommands = []*discordgo.ApplicationCommand{
	{
		Name:        "birthday-set",
		Description: "Saves your birthday.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "date",
				Description: "Your birthday, with or without the year. For example: March 3, 1990.",
				Required:    true,
			},
		},
	}, {
		Name:        "birthday",
		Description: "Looks up a member's birthday.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "The member to look up. Defaults to you.",
				Required:    false,
			},
		},
	}, {
		Name:        "birthday-next",
		Description: "Shows the next upcoming birthday on this server.",
	}, {
		Name:        "birthday-forget",
		Description: "Removes your birthday.",
	}, {
		Name:        "birthday-list",
		Description: "Posts the birthday list and keeps it up to date.",
	}, {
		Name:        "birthday-channel",
		Description: "Sets the channel for birthday greetings.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "channel",
				Description: "The channel to greet in.",
				Required:    true,
			},
		},
	}, {
		Name:        "birthday-forget-all",
		Description: "Deletes every birthday on this server.",
	},
}

// Bot wires the discord session to the birthday registry, the guild settings
// store and the daily matcher.
type Bot struct {
	session    *discordgo.Session
	registry   *dal.Registry
	settings   *dal.Settings
	matcher    *dal.Matcher
	normalizer *dates.Normalizer
	log        zerolog.Logger

	guildID            string
	registeredCommands []*discordgo.ApplicationCommand
	commandHandlers    map[string]commandHandler
}

// New connects to discord and registers the slash commands. guildID scopes
// registration to a single guild; empty registers globally.
func New(
	token string,
	guildID string,
	db *gorm.DB,
	normalizer *dates.Normalizer,
	log zerolog.Logger,
) (*Bot, error) {
	bot := &Bot{
		registry:   dal.NewRegistry(db),
		settings:   dal.NewSettings(db),
		matcher:    dal.NewMatcher(db),
		normalizer: normalizer,
		log:        log.With().Str("component", "bot").Logger(),
		guildID:    guildID,
	}

	bot.commandHandlers = map[string]commandHandler{
		"birthday-set":        bot.BirthdaySet,
		"birthday":            bot.BirthdayLookup,
		"birthday-next":       bot.BirthdayNext,
		"birthday-forget":     bot.BirthdayForget,
		"birthday-list":       bot.BirthdayList,
		"birthday-channel":    bot.BirthdayChannel,
		"birthday-forget-all": bot.BirthdayForgetAll,
	}

	if err := bot.initSession(token); err != nil {
		return nil, err
	}
	if err := bot.registerCommands(); err != nil {
		bot.session.Close()
		return nil, err
	}

	return bot, nil
}

func (bot *Bot) initSession(token string) error {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsAll

	session.AddHandler(func(*discordgo.Session, *discordgo.Ready) {
		bot.log.Info().Msg("Bot is up!")
	})

	session.AddHandler(func(
		s *discordgo.Session,
		i *discordgo.InteractionCreate,
	) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		if handler, ok := bot.commandHandlers[i.ApplicationCommandData().Name]; ok {
			handler(i)
		}
	})

	session.AddHandler(bot.handleGuildDelete)
	session.AddHandler(bot.handleMemberRemove)

	if err := session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	bot.session = session
	return nil
}

func (bot *Bot) registerCommands() error {
	for _, command := range botCommands {
		registered, err := bot.session.ApplicationCommandCreate(
			bot.session.State.User.ID,
			bot.guildID,
			command,
		)
		if err != nil {
			return fmt.Errorf("create %v command: %w", command.Name, err)
		}
		bot.registeredCommands = append(bot.registeredCommands, registered)
		bot.log.Info().Str("command", command.Name).Msg("Created command.")
	}
	return nil
}

// Shutdown deregisters the slash commands and closes the session.
func (bot *Bot) Shutdown() {
	bot.log.Info().Msg("Shutting down.")

	for _, command := range bot.registeredCommands {
		err := bot.session.ApplicationCommandDelete(
			bot.session.State.User.ID,
			bot.guildID,
			command.ID,
		)
		if err != nil {
			bot.log.Error().Err(err).Str("command", command.Name).Msg("Failed to delete command.")
		} else {
			bot.log.Info().Str("command", command.Name).Msg("Deleted command.")
		}
	}

	bot.session.Close()
}
