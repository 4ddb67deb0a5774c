package discordutils

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// AckInteraction sends a deferred response for the given interaction.
func AckInteraction(
	interaction *discordgo.Interaction,
	session *discordgo.Session,
) {
	session.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

// SendFollowup creates a followup message with the given content.
func SendFollowup(
	content string,
	interaction *discordgo.Interaction,
	session *discordgo.Session,
) (*discordgo.Message, error) {
	return session.FollowupMessageCreate(
		interaction,
		true,
		&discordgo.WebhookParams{
			Content: content,
		},
	)
}

// MemberIsAdmin returns true if the interaction member has admin permissions.
func MemberIsAdmin(member *discordgo.Member) bool {
	return member != nil &&
		member.Permissions&discordgo.PermissionAdministrator > 0
}

// ParseSnowflake converts a discord snowflake ID to its numeric form.
func ParseSnowflake(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

// FormatSnowflake converts a numeric ID back to discord's string form.
func FormatSnowflake(id int64) string {
	return strconv.FormatInt(id, 10)
}
