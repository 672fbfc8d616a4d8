package domain

// ─── Reputation ─────────────────────────────────────────────────────────────
// Reputation is an exponentially-weighted score: each rating contributes 10%
// of the new value, scaled from the 0–5 rating scale to the 0–100 reputation
// range, while the prior score keeps 90% weight.

const (
	// MinRating and MaxRating bound the accepted rating scale.
	MinRating = 0
	MaxRating = 5

	// ratingScale maps a 0–5 rating onto the 0–100 reputation range.
	ratingScale = 100 / MaxRating
)

// ValidRating reports whether r is on the accepted scale.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// NextReputation folds one rating into a reputation score:
//
//	next = floor((current×9 + rating×20) / 10)
//
// Inputs are never negative, so integer division is the floor.
func NextReputation(current, rating int) int {
	return (current*9 + rating*ratingScale) / 10
}
