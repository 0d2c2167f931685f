package dto

import (
	"lewis.chat/gateway/internal/carrier"
	"lewis.chat/gateway/internal/model"
)

type SendMessageRequest struct {
	To               string `json:"to" binding:"required"`
	Message          string `json:"message" binding:"required"`
	MediaURL         string `json:"mediaUrl,omitempty"`
	MediaContentType string `json:"mediaContentType,omitempty"`
}

// Media returns the attachment reference, or nil when none was requested.
func (r SendMessageRequest) Media() *model.MediaRef {
	if r.MediaURL == "" || r.MediaContentType == "" {
		return nil
	}
	return &model.MediaRef{URL: r.MediaURL, ContentType: r.MediaContentType}
}

type SendMessageResponse struct {
	ExternalID string `json:"externalId"`
	Status     string `json:"status"`
}

func ToSendMessageResponse(receipt carrier.Receipt) SendMessageResponse {
	return SendMessageResponse{
		ExternalID: receipt.SID,
		Status:     receipt.Status,
	}
}

type MessageStatusResponse struct {
	Status       string  `json:"status"`
	ErrorCode    *int    `json:"errorCode,omitempty"`
	ErrorMessage *string `json:"errorMessage,omitempty"`
}

func ToMessageStatusResponse(report carrier.StatusReport) MessageStatusResponse {
	return MessageStatusResponse{
		Status:       report.Status,
		ErrorCode:    report.ErrorCode,
		ErrorMessage: report.ErrorMessage,
	}
}

type BalanceResponse struct {
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

func ToBalanceResponse(bal carrier.Balance) BalanceResponse {
	return BalanceResponse{Balance: bal.Amount, Currency: bal.Currency}
}
