package models

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Question string `json:"question" binding:"required"`
}

// ModeRequest is the body of POST /switch-mode.
type ModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}
