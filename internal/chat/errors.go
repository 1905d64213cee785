package chat

import "errors"

var (
	// ErrInvalidUsername is returned when a sanitized username is shorter than
	// MinUsernameLength. The connection may retry.
	ErrInvalidUsername = errors.New("username invalid")
	// ErrUsernameInUse is returned when the username belongs to a session with
	// a different session token. The connection is closed.
	ErrUsernameInUse = errors.New("username in use")
	// ErrMalformedPayload marks an inbound frame that could not be decoded.
	ErrMalformedPayload = errors.New("malformed payload")
)

// Texts shown to clients.
const (
	invalidUsernameText = "Username invalid"
	usernameInUseText   = "این یوزرنیم در حال استفاده است"
	joinedSuffix        = " وارد شد"
	leftSuffix          = " خارج شد"
)
