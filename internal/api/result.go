package api

// rawResult is the wire shape of an AI answer. The backend is inconsistent
// about which field carries the text, so normalization happens here and
// nowhere else.
type rawResult struct {
	Response  string   `json:"response"`
	Summary   string   `json:"summary"`
	Reply     string   `json:"reply"`
	KeyPoints []string `json:"key_points"`
	ModelUsed string   `json:"model_used"`
}

// Result is the one stable answer shape the rest of the program sees.
type Result struct {
	Text      string
	KeyPoints []string
	ModelUsed string
}

// normalize resolves the response/summary/reply fallback chain, in that
// priority order, and defaults the model label.
func (r *rawResult) normalize() *Result {
	text := r.Response
	if text == "" {
		text = r.Summary
	}
	if text == "" {
		text = r.Reply
	}
	if text == "" {
		text = "I've processed your request successfully."
	}

	model := r.ModelUsed
	if model == "" {
		model = "Groq AI"
	}

	return &Result{
		Text:      text,
		KeyPoints: r.KeyPoints,
		ModelUsed: model,
	}
}
