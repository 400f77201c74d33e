package assist

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alumniconnect/internal/model"
)

// FallbackDraft is returned whenever generation is unavailable or fails.
const FallbackDraft = "Excited to join this community and connect with fellow professionals!"

const draftTopic = "Excited about connecting with peers and learning new things"

// DraftPrompt builds the post-draft prompt for a member.
func DraftPrompt(role model.Role, name string) string {
	return fmt.Sprintf("Write a professional, short LinkedIn-style post for a %s named %s. "+
		"Topic: %q. Tone: Professional but enthusiastic. Max 2 sentences.", role, name, draftTopic)
}

// Drafter suggests post text. Errors are logged and replaced by FallbackDraft.
type Drafter struct {
	gen TextGenerator
	log *zap.Logger
}

// NewDrafter accepts a nil generator.
func NewDrafter(gen TextGenerator, log *zap.Logger) *Drafter {
	return &Drafter{gen: gen, log: log.Named("assist")}
}

func (d *Drafter) Draft(ctx context.Context, role model.Role, name string) model.AssistDraft {
	if d.gen == nil {
		return model.AssistDraft{Text: FallbackDraft}
	}

	text, err := d.gen.GenerateText(ctx, DraftPrompt(role, name))
	if err != nil {
		d.log.Warn("draft generation failed", zap.Error(err))
		return model.AssistDraft{Text: FallbackDraft}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return model.AssistDraft{Text: FallbackDraft}
	}
	return model.AssistDraft{Text: text, Generated: true}
}
