package describe

import (
	"context"
	"fmt"
	"strings"

	"github.com/amanattar/tubescribe/internal/channel"
	"github.com/amanattar/tubescribe/pkg/log"
)

// minTranscriptChars guards against generating a description from an
// empty or corrupt transcript.
const minTranscriptChars = 50

// ChatClient is the hosted text-generation dependency.
type ChatClient interface {
	SimpleChat(ctx context.Context, prompt string, systemPrompt string) (string, error)
}

// Generator produces a channel-styled video description from an SRT
// transcript.
type Generator struct {
	chat ChatClient
}

func NewGenerator(chat ChatClient) *Generator {
	return &Generator{chat: chat}
}

func (g *Generator) Generate(ctx context.Context, channelID, transcript string) (string, error) {
	if len(strings.TrimSpace(transcript)) < minTranscriptChars {
		return "", fmt.Errorf("transcript is too short (%d chars), file may be empty or corrupted", len(transcript))
	}

	profile, err := channel.Lookup(channelID)
	if err != nil {
		return "", err
	}

	prompt, err := profile.BuildPrompt(transcript)
	if err != nil {
		return "", err
	}

	log.Info("Generating %s description for channel %s (%d transcript chars)",
		profile.Language, profile.ID, len(transcript))

	description, err := g.chat.SimpleChat(ctx, prompt, "")
	if err != nil {
		return "", fmt.Errorf("description generation failed: %w", err)
	}
	if strings.TrimSpace(description) == "" {
		return "", fmt.Errorf("description generation returned empty text")
	}

	return description, nil
}
