package service

import (
	"context"
	"fmt"
	"log/slog"

	"lewis.chat/gateway/common/logger"
	"lewis.chat/gateway/internal/admission"
	"lewis.chat/gateway/internal/carrier"
	"lewis.chat/gateway/internal/llm"
	"lewis.chat/gateway/internal/model"
	"lewis.chat/gateway/internal/store"
)

// contextWindow bounds how many prior messages feed the reply oracle.
const contextWindow = 10

const (
	// fallbackReply is delivered when the oracle fails. Generation failure
	// must never leave the sender without a response.
	fallbackReply = "Sorry, I'm having trouble processing your message right now. Please try again later."
	// deliveryApology is the one best-effort message attempted when the
	// real reply could not be delivered.
	deliveryApology = "Sorry, something went wrong on our end. Please try again in a bit."
	// attachmentPrompt stands in for the message text when the inbound
	// payload carried only an attachment.
	attachmentPrompt = "The user sent a media attachment without any text. Respond to it naturally."
)

// InboundMessage is a parsed webhook event.
type InboundMessage struct {
	From       string // raw carrier address, possibly whatsapp-tagged
	To         string
	Body       string
	MessageSID string
	Media      *model.MediaRef
}

// MessageService runs the round trip for inbound events and handles
// programmatic sends.
type MessageService interface {
	// HandleInbound executes persist → contextualize → generate → deliver →
	// persist → touch for one webhook event and returns the delivered
	// reply text.
	HandleInbound(ctx context.Context, in InboundMessage) (string, error)
	// Send delivers a message to an arbitrary destination and records it
	// under the destination's conversation.
	Send(ctx context.Context, to, text string, media *model.MediaRef) (carrier.Receipt, error)
	// Status probes the carrier for the delivery state of a sent message.
	Status(ctx context.Context, sid string) (carrier.StatusReport, error)
}

type messageService struct {
	conversations store.ConversationStore
	messages      store.MessageStore
	uow           store.UnitOfWork
	assembler     ContextAssembler
	oracle        llm.Oracle
	gateway       carrier.Gateway
	limiter       *admission.Limiter
}

func NewMessageService(
	conversations store.ConversationStore,
	messages store.MessageStore,
	uow store.UnitOfWork,
	assembler ContextAssembler,
	oracle llm.Oracle,
	gateway carrier.Gateway,
	limiter *admission.Limiter,
) MessageService {
	return &messageService{
		conversations: conversations,
		messages:      messages,
		uow:           uow,
		assembler:     assembler,
		oracle:        oracle,
		gateway:       gateway,
		limiter:       limiter,
	}
}

func (s *messageService) HandleInbound(ctx context.Context, in InboundMessage) (string, error) {
	sc := logger.StartSpan(ctx, "gateway.handle_inbound")
	defer sc.End()

	reply, err := s.handleInbound(sc.Context(), in)
	if err != nil {
		sc.RecordError(err)
	}
	return reply, err
}

func (s *messageService) handleInbound(ctx context.Context, in InboundMessage) (string, error) {
	sender := model.ParseAddress(in.From)
	if !sender.Valid() {
		return "", fmt.Errorf("%w: sender address %q", ErrValidation, in.From)
	}
	if in.Body == "" && in.Media == nil {
		return "", fmt.Errorf("%w: empty message", ErrValidation)
	}

	if !s.limiter.Allow(sender.Number) {
		slog.WarnContext(ctx, "inbound message rate limited", "sender", sender.Number)
		return "", ErrRateLimited
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		MessageSID: logger.Ptr(in.MessageSID),
		Sender:     logger.Ptr(sender.Number),
		Component:  "gateway.orchestrator",
	})

	// Resolve the conversation and persist the inbound message in one
	// transaction before anything downstream runs; nothing may be
	// generated from unrecorded input, and a first contact whose persist
	// fails leaves no half-created conversation behind.
	content := in.Body
	if content == "" {
		content = model.MediaPlaceholder
	}
	var sid *string
	if in.MessageSID != "" {
		sid = &in.MessageSID
	}

	var conv *model.Conversation
	inbound := &model.Message{
		MessageSID: sid,
		Direction:  model.DirectionInbound,
		Content:    content,
		FromNumber: in.From,
		ToNumber:   in.To,
		Status:     "received",
		Media:      in.Media,
	}
	err := s.uow.InTx(ctx, func(conversations store.ConversationStore, messages store.MessageStore) error {
		var err error
		conv, err = conversations.GetOrCreate(ctx, sender.Number)
		if err != nil {
			return fmt.Errorf("resolving conversation: %w", err)
		}
		inbound.ConversationID = conv.ID
		if err := messages.Create(ctx, inbound); err != nil {
			return fmt.Errorf("persisting inbound message: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{ConversationID: logger.Ptr(conv.ID)})

	turns, err := s.assembler.BuildContext(ctx, conv.ID, contextWindow, inbound.ID)
	if err != nil {
		return "", fmt.Errorf("building context: %w", err)
	}

	reply := s.generateReply(ctx, in, turns)

	receipt, err := s.gateway.Deliver(ctx, sender, reply, nil)
	if err != nil {
		slog.ErrorContext(ctx, "reply delivery failed", "error", err)
		// One best-effort apology; its own failure is swallowed. The
		// inbound message stays persisted either way.
		if _, apologyErr := s.gateway.Deliver(ctx, sender, deliveryApology, nil); apologyErr != nil {
			slog.WarnContext(ctx, "apology delivery failed", "error", apologyErr)
		}
		return "", fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	s.recordOutbound(ctx, conv.ID, receipt, reply, sender)

	if err := s.conversations.Touch(ctx, conv.ID); err != nil {
		slog.ErrorContext(ctx, "failed to touch conversation", "error", err)
	}

	slog.InfoContext(ctx, "inbound message processed", "reply_sid", receipt.SID)
	return reply, nil
}

// generateReply invokes the oracle and absorbs any failure into the fixed
// fallback. Oracle errors never propagate to the sender-facing path.
func (s *messageService) generateReply(ctx context.Context, in InboundMessage, turns []model.Turn) string {
	prompt := in.Body
	if prompt == "" {
		prompt = attachmentPrompt
	}

	sc := logger.StartSpan(ctx, "gateway.generate_reply")
	defer sc.End()

	reply, err := s.oracle.Generate(sc.Context(), llm.Request{
		Prompt:  prompt,
		Context: turns,
		Media:   in.Media,
	})
	if err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "reply generation failed, using fallback", "error", err)
		return fallbackReply
	}
	if reply == "" {
		slog.WarnContext(ctx, "oracle returned empty reply, using fallback")
		return fallbackReply
	}
	return reply
}

// recordOutbound persists the delivered reply. The message already reached
// the carrier, so persistence failure is logged and otherwise ignored:
// consistency favors "message sent" over "message recorded".
func (s *messageService) recordOutbound(ctx context.Context, conversationID int64, receipt carrier.Receipt, text string, to model.Address) {
	var sid *string
	if receipt.SID != "" {
		sid = &receipt.SID
	}
	outbound := &model.Message{
		ConversationID: conversationID,
		MessageSID:     sid,
		Direction:      model.DirectionOutbound,
		Content:        text,
		FromNumber:     receipt.From,
		ToNumber:       to.String(),
		Status:         receipt.Status,
	}
	if err := s.messages.Create(ctx, outbound); err != nil {
		slog.ErrorContext(ctx, "failed to persist outbound message", "error", err, "sid", receipt.SID)
	}
}

func (s *messageService) Send(ctx context.Context, to, text string, media *model.MediaRef) (carrier.Receipt, error) {
	sc := logger.StartSpan(ctx, "gateway.send")
	defer sc.End()
	ctx = sc.Context()

	dest := model.ParseAddress(to)
	if !dest.Valid() {
		return carrier.Receipt{}, fmt.Errorf("%w: destination address %q", ErrValidation, to)
	}
	if text == "" {
		return carrier.Receipt{}, fmt.Errorf("%w: empty message", ErrValidation)
	}

	receipt, err := s.gateway.Deliver(ctx, dest, text, media)
	if err != nil {
		sc.RecordError(err)
		return carrier.Receipt{}, err
	}

	conv, err := s.conversations.GetOrCreate(ctx, dest.Number)
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve conversation for sent message", "error", err, "sid", receipt.SID)
		return receipt, nil
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{ConversationID: logger.Ptr(conv.ID)})

	var sid *string
	if receipt.SID != "" {
		sid = &receipt.SID
	}
	if err := s.messages.Create(ctx, &model.Message{
		ConversationID: conv.ID,
		MessageSID:     sid,
		Direction:      model.DirectionOutbound,
		Content:        text,
		FromNumber:     receipt.From,
		ToNumber:       dest.String(),
		Status:         receipt.Status,
		Media:          media,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to persist sent message", "error", err, "sid", receipt.SID)
	}

	if err := s.conversations.Touch(ctx, conv.ID); err != nil {
		slog.ErrorContext(ctx, "failed to touch conversation", "error", err)
	}

	return receipt, nil
}

func (s *messageService) Status(ctx context.Context, sid string) (carrier.StatusReport, error) {
	if sid == "" {
		return carrier.StatusReport{}, fmt.Errorf("%w: empty message sid", ErrValidation)
	}
	return s.gateway.MessageStatus(ctx, sid)
}
