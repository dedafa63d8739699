package assistant

import (
	"fmt"

	"github.com/kailas-cloud/gigmarket/internal/domain"
)

const keywordSystemPrompt = "You are a smart assistant that extracts useful search keywords from client requests. " +
	"The request may be about finding gigs or freelancers. " +
	"Focus only on the key words such as the city, state, services, or price, " +
	`without adding any labels like "Location:", "Skills:", etc.`

const describeSystemPrompt = "You are an assistant that helps freelancers create gig descriptions."

// FallbackReply is returned when the model answers a conversation with nothing.
const FallbackReply = "Sorry, I couldn't understand that."

func keywordMessages(prompt string) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Content: keywordSystemPrompt},
		{Role: domain.RoleUser, Content: fmt.Sprintf(
			`Client Request: "%s". Extract only the useful search keywords for city, state, service type, and price.`,
			prompt,
		)},
	}
}

func describeMessages(details string) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Content: describeSystemPrompt},
		{Role: domain.RoleUser, Content: fmt.Sprintf(
			"Help me create a gig description based on the following details:\n\n%s\n\nGig Description:",
			details,
		)},
	}
}
