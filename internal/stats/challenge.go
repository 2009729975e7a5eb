package stats

import (
	"fmt"
	"math"
	"time"

	"katalog/internal/models"
)

// Challenge projects the reading challenge onto its display fields for the
// month now falls in. Behind takes precedence over over-goal, which takes
// precedence over ahead; anything else is on track.
func Challenge(c models.ReadingChallenge, now time.Time) models.ChallengeStatus {
	booksLeft := max(0, c.Goal-c.BooksCompleted)
	booksOver := max(0, c.BooksCompleted-c.Goal)

	monthsRemaining := 12 - (int(now.Month()) - 1)
	booksNeeded := booksLeft
	if monthsRemaining > 0 {
		booksNeeded = (booksLeft + monthsRemaining - 1) / monthsRemaining
	}

	status := models.ChallengeStatus{
		Year:                c.Year,
		Goal:                c.Goal,
		Completed:           c.BooksCompleted,
		Percentage:          c.Percentage,
		RoundedPercentage:   int(math.Round(c.Percentage)),
		MainProgress:        math.Min(c.Percentage, 100),
		BooksLeft:           booksLeft,
		BooksOver:           booksOver,
		MonthsRemaining:     monthsRemaining,
		BooksNeededPerMonth: booksNeeded,
		MessageTitle:        fmt.Sprintf("%d books read", c.BooksCompleted),
		MessageSubtitle:     fmt.Sprintf("%d books left", booksLeft),
	}
	if c.Percentage > 100 {
		status.ExcessProgress = c.Percentage - 100
	}

	switch {
	case positive(c.BooksBehind):
		status.State = models.ChallengeBehind
		status.Status = "Behind schedule"
		status.StatusColor = "text-amber-500"
		status.ProgressColor = "stroke-amber-500"
		status.MessageBody = fmt.Sprintf("Read %d books per month for the next %d months to finish on time.", booksNeeded, monthsRemaining)
	case c.Percentage >= 100:
		status.State = models.ChallengeOverGoal
		status.Status = "Hurray!"
		status.StatusColor = "text-emerald-400"
		status.ProgressColor = "stroke-indigo-500"
		status.MessageSubtitle = fmt.Sprintf("%d books over goal", booksOver)
		status.MessageBody = "Great job reading more than what you planned!"
	case positive(c.BooksAhead):
		status.State = models.ChallengeAhead
		status.Status = "Ahead of schedule"
		status.StatusColor = "text-emerald-400"
		status.ProgressColor = "stroke-emerald-500"
		status.MessageBody = "You are crushing your reading goals this year."
	default:
		status.State = models.ChallengeOnTrack
		status.Status = "On track"
		status.StatusColor = "text-neutral-400"
		status.ProgressColor = "stroke-indigo-500"
		status.MessageBody = "Keep going, you will achieve your goal soon!"
	}

	return status
}

func positive(n *int) bool {
	return n != nil && *n > 0
}
