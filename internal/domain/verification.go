package domain

// VerificationOutcome is the evaluator's judgement of a submission as parsed
// from the LLM reply. Pointer fields distinguish "absent" from zero values.
type VerificationOutcome struct {
	Verified *bool    `json:"verified"`
	Score    *float64 `json:"score"`
	Feedback string   `json:"feedback"`
}

// Resolve derives the effective verification decision:
//   - score defaults to 0 when absent and is clamped to [0,100]
//   - verified follows the evaluator's explicit flag, else score >= 50
//   - an approved-but-unscored submission is floored at 70
func (o VerificationOutcome) Resolve() (bool, int) {
	score := 0
	if o.Score != nil {
		score = int(*o.Score)
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	verified := score >= 50
	if o.Verified != nil {
		verified = *o.Verified
	}
	if verified && score == 0 {
		score = 70
	}
	return verified, score
}
