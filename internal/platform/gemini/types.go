package gemini

// promptData represents the data passed to the prompt template.
type promptData struct {
	Title        string
	Description  string
	Vendor       string
	ProductType  string
	MaxQuestions int
}
