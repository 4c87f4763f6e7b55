package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/extract"
	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/models"
	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/store"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrorMarker prefixes the assistant message substituted when the model
// service fails. The turn degrades; it never aborts.
const ErrorMarker = "⚠️ Model error: "

// ErrTurnInFlight means another turn is already running on the session.
var ErrTurnInFlight = errors.New("a turn is already in flight")

// ModelClient produces the next assistant reply from the full history.
type ModelClient interface {
	Chat(ctx context.Context, messages []models.Message) (string, error)
}

// TextExtractor converts an attached document into plain text.
type TextExtractor interface {
	Text(doc extract.Document) (string, error)
}

// TurnResult reports what one turn appended.
type TurnResult struct {
	Chat *models.ChatRecord
	// Appended holds the messages added by this turn, user messages first,
	// assistant reply last.
	Appended []models.Message
	// ExtractionErrs aggregates per-attachment extraction failures. These
	// are already reflected in the chat as placeholder messages; they are
	// returned for logging only.
	ExtractionErrs error
}

// Assembler executes turns: it grows the active chat's message list, makes
// the single blocking model call, and appends the reply.
type Assembler struct {
	client    ModelClient
	extractor TextExtractor
	logger    *zap.Logger
}

func NewAssembler(client ModelClient, extractor TextExtractor, logger *zap.Logger) *Assembler {
	return &Assembler{
		client:    client,
		extractor: extractor,
		logger:    logger,
	}
}

// RunTurn executes one turn against the session's active chat: append the
// typed message, append one user message per attachment's extracted text,
// send the entire accumulated history to the model, append the reply, and
// derive the title if it is still the default. A model failure becomes a
// visible assistant message carrying ErrorMarker; an extraction failure
// becomes a placeholder user message for that attachment. Prior history is
// never modified.
func (a *Assembler) RunTurn(ctx context.Context, sess *store.Session, content string, attachments []extract.Document) (*TurnResult, error) {
	if !sess.BeginTurn() {
		return nil, ErrTurnInFlight
	}
	defer sess.EndTurn()

	chat := sess.Active()
	if chat == nil {
		return nil, store.ErrChatNotFound
	}

	result := &TurnResult{Chat: chat}
	appendUser := func(text string) error {
		msg := models.Message{Role: models.RoleUser, Content: text}
		if err := sess.AppendMessage(chat.ID, msg); err != nil {
			return err
		}
		result.Appended = append(result.Appended, msg)
		return nil
	}

	if content != "" {
		if err := appendUser(content); err != nil {
			return nil, err
		}
	}

	for _, doc := range attachments {
		text, err := a.extractor.Text(doc)
		if err != nil {
			a.logger.Warn("attachment extraction failed",
				zap.String("filename", doc.Filename),
				zap.String("mime_type", doc.MIMEType),
				zap.Error(err))
			result.ExtractionErrs = multierr.Append(result.ExtractionErrs, err)
			text = fmt.Sprintf("[attachment %s: text extraction failed]", doc.Filename)
		}
		if err := appendUser(text); err != nil {
			return nil, err
		}
	}

	reply, err := a.client.Chat(ctx, sess.Working())
	if err != nil {
		a.logger.Error("model service call failed", zap.Error(err))
		reply = ErrorMarker + err.Error()
	}
	assistant := models.Message{Role: models.RoleAssistant, Content: reply}
	if err := sess.AppendMessage(chat.ID, assistant); err != nil {
		return nil, err
	}
	result.Appended = append(result.Appended, assistant)

	if err := sess.RefreshTitle(chat.ID); err != nil {
		return nil, err
	}
	return result, nil
}
