package model

// Entity is an already-extracted NLU entity; extraction happens upstream.
type Entity struct {
	Entity string `json:"entity"`
	Value  string `json:"value"`
}

// WebhookRequest is the intent-classification payload posted by the chat
// engine. The patient is addressed only through the metadata codes.
type WebhookRequest struct {
	NextAction string `json:"next_action"`
	Tracker    struct {
		LatestMessage struct {
			Entities []Entity `json:"entities"`
			Metadata struct {
				SHCCode string `json:"shc_code"`
				QRCode  string `json:"qr_code"`
			} `json:"metadata"`
		} `json:"latest_message"`
	} `json:"tracker"`
}

// WebhookEvent is a single bot utterance in the webhook response.
type WebhookEvent struct {
	Event string `json:"event"`
	Text  string `json:"text"`
}

// WebhookResponse is the chat engine response envelope.
type WebhookResponse struct {
	Events []WebhookEvent `json:"events"`
}
