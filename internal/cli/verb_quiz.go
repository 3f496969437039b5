package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/at-ishikawa/verbdrill/internal/practice"
	"github.com/at-ishikawa/verbdrill/internal/verb"
)

//go:generate mockgen -source=verb_quiz.go -destination=../mocks/cli/mock_verb_quiz.go -package=mock_cli Practicer

// Practicer selects verbs and records answers.
type Practicer interface {
	SelectPractice(ctx context.Context, req practice.SelectRequest) ([]verb.Verb, error)
	SubmitOutcome(ctx context.Context, req practice.OutcomeRequest) (practice.Summary, error)
}

// VerbQuizCLI asks the past simple and the past participle of each verb in a
// practice batch and records every answer.
type VerbQuizCLI struct {
	*InteractiveQuizCLI
	practicer Practicer
	userID    int64
	cards     []verb.Verb
	total     int
	correct   int
	earned    int
}

// NewVerbQuizCLI selects a batch for the user and prepares the session.
func NewVerbQuizCLI(
	ctx context.Context,
	practicer Practicer,
	userID int64,
	limit int,
	stdin io.Reader,
	stdout io.Writer,
) (*VerbQuizCLI, error) {
	cards, err := practicer.SelectPractice(ctx, practice.SelectRequest{UserID: userID, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("SelectPractice() > %w", err)
	}
	return &VerbQuizCLI{
		InteractiveQuizCLI: newInteractiveQuizCLI(stdin, stdout),
		practicer:          practicer,
		userID:             userID,
		cards:              cards,
		total:              len(cards),
	}, nil
}

// GetCardCount returns the number of remaining cards
func (r *VerbQuizCLI) GetCardCount() int {
	return len(r.cards)
}

func (r *VerbQuizCLI) Session(ctx context.Context) error {
	if len(r.cards) == 0 {
		r.printSummary()
		return errEnd
	}
	card := r.cards[0]
	out := r.stdoutWriter

	_, _ = fmt.Fprintf(out, "[%d/%d] ", r.total-len(r.cards)+1, r.total)
	_, _ = r.bold.Fprint(out, card.Infinitive)
	if card.Translation != "" {
		_, _ = fmt.Fprintf(out, " (%s)", card.Translation)
	}
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprint(out, "  Past simple: ")
	past, err := r.readLine()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(out, "  Past participle: ")
	participle, err := r.readLine()
	if err != nil {
		return err
	}

	correct := MatchForm(past, card.Past) && MatchForm(participle, card.Participle)
	summary, err := r.practicer.SubmitOutcome(ctx, practice.OutcomeRequest{
		UserID:  r.userID,
		VerbID:  card.ID,
		Correct: correct,
	})
	if err != nil {
		return fmt.Errorf("SubmitOutcome() > %w", err)
	}

	forms := fmt.Sprintf("%s - %s - %s", card.Infinitive, card.Past, card.Participle)
	if correct {
		r.correct++
		_, _ = fmt.Fprint(out, "✅ ")
		_, _ = r.green.Fprintf(out, "It's correct. %s\n", r.bold.Sprint(forms))
	} else {
		_, _ = fmt.Fprint(out, "❌ ")
		_, _ = r.red.Fprintf(out, "It's wrong. %s\n", r.bold.Sprint(forms))
	}
	if card.Example != "" {
		_, _ = fmt.Fprintf(out, "  %s\n", r.italic.Sprint(card.Example))
	}
	_, _ = fmt.Fprintf(out, "  streak %d, next review %s, +%d XP\n\n",
		summary.Streak, summary.DueAt.Local().Format("2006-01-02 15:04"), summary.Reward)
	r.earned += summary.Reward

	r.cards = r.cards[1:]
	return nil
}

func (r *VerbQuizCLI) printSummary() {
	if r.total == 0 {
		_, _ = fmt.Fprintln(r.stdoutWriter, "No verbs to practice!")
		return
	}
	_, _ = fmt.Fprintf(r.stdoutWriter, "Finished: %d/%d correct, %d XP earned\n", r.correct, r.total, r.earned)
}

// MatchForm reports whether answer is the expected verb form. Expected forms
// may list alternatives separated by "/" or ",", e.g. "was/were".
func MatchForm(answer, expected string) bool {
	answer = normalizeForm(answer)
	if answer == "" {
		return false
	}
	if answer == normalizeForm(expected) {
		return true
	}
	for _, alt := range strings.FieldsFunc(expected, func(r rune) bool { return r == '/' || r == ',' }) {
		if answer == normalizeForm(alt) {
			return true
		}
	}
	return false
}

func normalizeForm(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
