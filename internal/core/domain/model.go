package domain

// Upload is a user-selected file as it was handed to the client.
type Upload struct {
	Name string
	MIME string
	Size int64
	Data []byte
}

// Result is the immutable record of one finished removal or inpainting request.
type Result struct {
	// Index is the position of the source upload in the session.
	Index int
	// Name is the suggested download name.
	Name string
	// Path is the stored result; it is released when the result is superseded.
	Path string
	// Data holds the result only when it could not be stored.
	Data []byte
}

// PointerEvent is a single pointer or touch sample in host coordinates.
type PointerEvent struct {
	ID      int
	X, Y    float64
	Primary bool
}

// Message is an incoming chat message addressed to the bot front end.
type Message struct {
	ID               int
	ChatID           int64
	Username         string
	ReplyToMessageID *int
	ImageURL         string
	ImageSize        int64
	Text             string
}

type Action string

const (
	Typing       Action = "typing"
	SendingPhoto Action = "sending_photo"
)
