package dto

// CreateArticleRequest carries a candidate submission. Field order mirrors
// the submission form; every narrative field is required, notes are not.
type CreateArticleRequest struct {
	DOI                 string   `json:"doi" validate:"required"`
	Link                string   `json:"link" validate:"required,url"`
	Title               string   `json:"title" validate:"required"`
	Year                int      `json:"year" validate:"required,gte=1900,lte=2100"`
	Category            []string `json:"category" validate:"required,min=1,max=2"`
	ProblemDescription  string   `json:"problem_description" validate:"required"`
	SolutionDescription string   `json:"solution_description" validate:"required"`
	Result              string   `json:"result" validate:"required"`
	Problems            string   `json:"problems" validate:"required"`
	AdditionalNotes     string   `json:"additional_notes"`
}

// CheckArticleRequest probes for an existing record by exactly one
// identifier. Supplying more than one is ambiguous and rejected.
type CheckArticleRequest struct {
	DOI   string `json:"doi"`
	Link  string `json:"link"`
	Title string `json:"title"`
}

// CheckArticleResponse reports the probe outcome.
type CheckArticleResponse struct {
	Exists     bool   `json:"exists"`
	Identifier string `json:"identifier"`
}

// ExternalArticle is the read-API projection of a stored record. The
// addition date is rendered as an ISO-8601 string.
type ExternalArticle struct {
	Identifier          string   `json:"identifier"`
	Link                string   `json:"link"`
	Year                int      `json:"year"`
	Category            []string `json:"category"`
	Title               string   `json:"title"`
	ProblemDescription  string   `json:"problem_description"`
	SolutionDescription string   `json:"solution_description"`
	Result              string   `json:"result"`
	Problems            string   `json:"problems"`
	AdditionalNotes     string   `json:"additional_notes"`
	AdditionDate        string   `json:"addition_date"`
	SubmittedBy         string   `json:"submitted_by"`
}
