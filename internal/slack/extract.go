package slack

const (
	defaultUsername  = "[no name]"
	defaultTimestamp = "0"
)

// Extract pulls the message history out of a decoded conversations.history
// body. Missing or mistyped fields fall back to their defaults; unknown
// fields are dropped. No ordering is applied here.
func Extract(resp map[string]any) ([]RawMessage, error) {
	if resp == nil {
		return nil, &InputError{Reason: "missing message history"}
	}

	value, ok := resp["messages"]
	if !ok || value == nil {
		return nil, &InputError{Reason: "missing message history"}
	}

	list, ok := value.([]any)
	if !ok {
		return nil, &InputError{Reason: "message history is not a list"}
	}

	messages := make([]RawMessage, 0, len(list))
	for _, item := range list {
		// A non-object entry reads as an object with every field absent.
		fields, _ := item.(map[string]any)
		messages = append(messages, extractMessage(fields))
	}
	return messages, nil
}

func extractMessage(fields map[string]any) RawMessage {
	return RawMessage{
		Username:    stringOr(fields["username"], defaultUsername),
		Text:        stringOr(fields["text"], ""),
		Attachments: extractAttachments(fields["attachments"]),
		Timestamp:   stringOr(fields["ts"], defaultTimestamp),
		Reactions:   extractReactions(fields["reactions"]),
	}
}

func extractAttachments(value any) []Attachment {
	list, _ := value.([]any)
	attachments := make([]Attachment, 0, len(list))
	for _, item := range list {
		if fields, ok := item.(map[string]any); ok {
			attachments = append(attachments, Attachment(fields))
		}
	}
	return attachments
}

func extractReactions(value any) []Reaction {
	list, _ := value.([]any)
	reactions := make([]Reaction, 0, len(list))
	for _, item := range list {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		reactions = append(reactions, Reaction{
			Name:  stringOr(fields["name"], ""),
			Users: stringList(fields["users"]),
			Count: intOr(fields["count"], 0),
		})
	}
	return reactions
}

func stringOr(value any, fallback string) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fallback
}

func intOr(value any, fallback int) int {
	if n, ok := value.(float64); ok {
		return int(n)
	}
	return fallback
}

func stringList(value any) []string {
	list, _ := value.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
