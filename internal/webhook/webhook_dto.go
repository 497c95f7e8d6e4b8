package webhook

// Meta WhatsApp Cloud webhook payload shapes. Only the fields the bot reads.

type Payload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	MessagingProduct string    `json:"messaging_product"`
	Metadata         Metadata  `json:"metadata"`
	Messages         []Message `json:"messages,omitempty"`
}

type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type Message struct {
	From      string           `json:"from"`
	ID        string           `json:"id"`
	Timestamp string           `json:"timestamp"`
	Type      string           `json:"type"`
	Text      *TextContent     `json:"text,omitempty"`
	Location  *LocationContent `json:"location,omitempty"`
}

type TextContent struct {
	Body string `json:"body"`
}

type LocationContent struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// messages unwraps the nested envelope, nil when the payload does not carry
// the expected shape.
func (p Payload) messages() []Message {
	if p.Object == "" || len(p.Entry) == 0 {
		return nil
	}
	if len(p.Entry[0].Changes) == 0 {
		return nil
	}
	return p.Entry[0].Changes[0].Value.Messages
}
