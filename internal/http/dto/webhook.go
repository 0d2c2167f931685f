package dto

import "lewis.chat/gateway/internal/model"

// InboundWebhook mirrors the carrier's form-encoded webhook payload.
type InboundWebhook struct {
	From             string `form:"From" binding:"required"`
	To               string `form:"To"`
	Body             string `form:"Body"`
	MessageSID       string `form:"MessageSid"`
	NumMedia         int    `form:"NumMedia"`
	MediaURL         string `form:"MediaUrl0"`
	MediaContentType string `form:"MediaContentType0"`
}

// Media returns the first attachment reference, or nil when the payload
// carries none. URL and content type must arrive together; a half-specified
// attachment is treated as absent.
func (w InboundWebhook) Media() *model.MediaRef {
	if w.NumMedia <= 0 || w.MediaURL == "" || w.MediaContentType == "" {
		return nil
	}
	return &model.MediaRef{URL: w.MediaURL, ContentType: w.MediaContentType}
}
