package session

import "time"

// Rank is the player's grade over a fully completed session.
type Rank string

const (
	RankMaster     Rank = "Master"
	RankExpert     Rank = "Expert"
	RankApprentice Rank = "Apprentice"
	RankBeginner   Rank = "Beginner"
)

// rankTiers is evaluated best to worst; the first tier whose time AND
// attempt bounds hold (both inclusive) wins. The final Beginner tier
// always matches.
var rankTiers = []struct {
	maxTime     time.Duration
	maxAttempts int
	rank        Rank
}{
	{10 * time.Minute, 50, RankMaster},
	{20 * time.Minute, 120, RankExpert},
	{30 * time.Minute, 220, RankApprentice},
}

func computeRank(totalTime time.Duration, totalAttempts int) Rank {
	for _, tier := range rankTiers {
		if totalTime <= tier.maxTime && totalAttempts <= tier.maxAttempts {
			return tier.rank
		}
	}
	return RankBeginner
}
