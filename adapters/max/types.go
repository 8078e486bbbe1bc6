package max

// Update types delivered by GET /updates
const (
	UpdateMessageCreated  = "message_created"
	UpdateMessageCallback = "message_callback"
	UpdateBotStarted      = "bot_started"
)

// --- Incoming ---

type UpdateList struct {
	Updates []Update `json:"updates"`
	Marker  *int64   `json:"marker"`
}

type Update struct {
	UpdateType string    `json:"update_type"`
	Timestamp  int64     `json:"timestamp"`
	Message    *Message  `json:"message,omitempty"`
	Callback   *Callback `json:"callback,omitempty"`

	// bot_started
	ChatID int64 `json:"chat_id,omitempty"`
	User   *User `json:"user,omitempty"`
}

type User struct {
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
}

type Recipient struct {
	ChatID   int64  `json:"chat_id"`
	ChatType string `json:"chat_type,omitempty"`
}

type MessageBody struct {
	MID  string `json:"mid"`
	Text string `json:"text"`
}

type Message struct {
	Sender    *User       `json:"sender,omitempty"`
	Recipient Recipient   `json:"recipient"`
	Body      MessageBody `json:"body"`
}

type Callback struct {
	CallbackID string `json:"callback_id"`
	Payload    string `json:"payload"`
	User       User   `json:"user"`
}

// --- Outgoing ---

// NewMessage is the body of POST /messages and the message part of POST /answers
type NewMessage struct {
	Text        string       `json:"text"`
	Format      string       `json:"format,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type Attachment struct {
	Type    string          `json:"type"`
	Payload KeyboardPayload `json:"payload"`
}

type KeyboardPayload struct {
	Buttons [][]Button `json:"buttons"`
}

type Button struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Payload string `json:"payload,omitempty"`
}

// Keyboard is an inline keyboard, one slice per row
type Keyboard [][]Button

func callbackButton(text, payload string) Button {
	return Button{Type: "callback", Text: text, Payload: payload}
}

func (k Keyboard) attachments() []Attachment {
	if len(k) == 0 {
		return nil
	}
	return []Attachment{{Type: "inline_keyboard", Payload: KeyboardPayload{Buttons: k}}}
}

type answerRequest struct {
	Message      *NewMessage `json:"message,omitempty"`
	Notification string      `json:"notification,omitempty"`
}

// apiResult is the generic reply of write endpoints
type apiResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
