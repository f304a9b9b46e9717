package quiz

import (
	"math/rand"
	"time"
)

// Quota is the number of questions drawn from each difficulty tier.
type Quota struct {
	Easy   int
	Medium int
	Hard   int
}

var DefaultQuota = Quota{Easy: 5, Medium: 10, Hard: 15}

func (q Quota) Total() int {
	return q.Easy + q.Medium + q.Hard
}

func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// AssembleQuestions builds the ordered question set for one session: the pool
// is deduplicated by text, each tier is shuffled and cut to its quota, and the
// tiers are concatenated easy, medium, hard.
func AssembleQuestions(pool []Question, quota Quota, rng *rand.Rand) ([]Question, error) {
	if rng == nil {
		rng = NewRand()
	}

	byText := make(map[string]int, len(pool))
	unique := make([]Question, 0, len(pool))
	for _, question := range pool {
		if idx, ok := byText[question.Text]; ok {
			unique[idx] = question
			continue
		}
		byText[question.Text] = len(unique)
		unique = append(unique, question)
	}

	tiers := map[Difficulty][]Question{}
	for _, question := range unique {
		tiers[question.Difficulty] = append(tiers[question.Difficulty], question)
	}

	selected := make([]Question, 0, quota.Total())
	selected = append(selected, shuffleWithLimit(tiers[DifficultyEasy], quota.Easy, rng)...)
	selected = append(selected, shuffleWithLimit(tiers[DifficultyMedium], quota.Medium, rng)...)
	selected = append(selected, shuffleWithLimit(tiers[DifficultyHard], quota.Hard, rng)...)

	if len(selected) == 0 {
		return nil, ErrNoQuestions
	}
	return selected, nil
}

// ShuffleOptions returns the options of q in a random order without touching q.
func ShuffleOptions(q Question, rng *rand.Rand) []string {
	if rng == nil {
		rng = NewRand()
	}
	options := make([]string, len(q.Options))
	copy(options, q.Options)
	fisherYates(len(options), rng, func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

func shuffleWithLimit(questions []Question, limit int, rng *rand.Rand) []Question {
	shuffled := make([]Question, len(questions))
	copy(shuffled, questions)
	fisherYates(len(shuffled), rng, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if limit < 0 {
		limit = 0
	}
	if limit > len(shuffled) {
		limit = len(shuffled)
	}
	return shuffled[:limit]
}

func fisherYates(n int, rng *rand.Rand, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		swap(i, j)
	}
}
