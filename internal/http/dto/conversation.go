package dto

import "lewis.chat/gateway/internal/model"

type ConversationHistoryResponse struct {
	Conversation model.Conversation `json:"conversation"`
	Messages     []model.Message    `json:"messages"`
}

func ToConversationHistoryResponse(conv *model.Conversation, messages []model.Message) ConversationHistoryResponse {
	if messages == nil {
		messages = []model.Message{}
	}
	return ConversationHistoryResponse{
		Conversation: *conv,
		Messages:     messages,
	}
}
