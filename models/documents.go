package models

// IndexedDocument is one source file present in the vector store.
type IndexedDocument struct {
	Source string `json:"source"`
	Hash   string `json:"hash"`
	Chunks int    `json:"chunks"`
}

// ListDocumentsResponse is the structure for the response of the GET /documents endpoint.
type ListDocumentsResponse struct {
	Count     int               `json:"count"`
	Documents []IndexedDocument `json:"documents"`
}

// SourceDocument represents a retrieved chunk of text and its origin.
type SourceDocument struct {
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// EmbedRequest is used to structure the request to the Ollama embedding API.
type EmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// EmbedResponse is used to parse the embedding from the Ollama API response.
type EmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}
