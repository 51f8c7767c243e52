package slack

import "strings"

const attachmentSeparator = " / "

// Convert flattens a raw message into its normalized form.
func Convert(raw RawMessage) Message {
	texts := make([]string, 0, len(raw.Attachments))
	for _, attachment := range raw.Attachments {
		texts = append(texts, attachment.Text())
	}

	names := make([]string, 0, len(raw.Reactions))
	for _, reaction := range raw.Reactions {
		names = append(names, reaction.Name)
	}

	return Message{
		Username:       raw.Username,
		Text:           raw.Text,
		Timestamp:      raw.Timestamp,
		AttachmentText: strings.Join(texts, attachmentSeparator),
		ReactionNames:  names,
	}
}
