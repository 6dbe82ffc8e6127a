package dtos

// TextRequest is the payload of /process_text.
type TextRequest struct {
	Text      string `json:"text"`
	Uppercase bool   `json:"uppercase"`
}

// TextResponse is the result of /process_text.
type TextResponse struct {
	Processed string `json:"processed"`
	Length    int    `json:"length"`
}

// SquareResponse is the result of /square/:number.
type SquareResponse struct {
	Number int64 `json:"number"`
	Square int64 `json:"square"`
}
