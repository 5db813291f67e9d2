package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID
	CodeNewGame
	CodeReveal
	CodeFlag

	// Sent by the server when a reveal/flag action or an
	// auto-validation threshold concluded the game
	CodeGameOver

	CodeSaveGame
	CodeLoadGame

	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
