package domain

type ChoiceResult struct {
	Choice
	Percentage float64 `json:"percentage"`
}

type Results struct {
	Question   Question       `json:"question"`
	TotalVotes int64          `json:"total_votes"`
	Choices    []ChoiceResult `json:"choices"`
}

// NewResults computes each choice's share of the question's votes.
func NewResults(q *Question) *Results {
	res := &Results{
		Question: Question{ID: q.ID, Text: q.Text, PubDate: q.PubDate},
		Choices:  make([]ChoiceResult, 0, len(q.Choices)),
	}
	for _, c := range q.Choices {
		res.TotalVotes += c.Votes
	}
	for _, c := range q.Choices {
		percentage := 0.0
		if res.TotalVotes > 0 {
			percentage = (float64(c.Votes) / float64(res.TotalVotes)) * 100
		}
		res.Choices = append(res.Choices, ChoiceResult{Choice: c, Percentage: percentage})
	}
	return res
}
