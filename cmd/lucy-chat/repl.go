// cmd/lucy-chat/repl.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"lucy-chat/internal/models"
)

const (
	cmdHistory = "/history"
	cmdQuit    = "/quit"
)

// messageHandler is the part of the handle-message worker the terminal uses.
type messageHandler interface {
	Handle(ctx context.Context, sess *models.ConversationSession, text string) bool
}

// runREPL reads one message per line until EOF, /quit or ctx is done, and
// prints every turn appended since the previous line.
func runREPL(ctx context.Context, in io.Reader, out io.Writer, h messageHandler, sess *models.ConversationSession) error {
	printed := printTurns(out, sess.Turns(), 0, false)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case cmdQuit:
			return nil
		case cmdHistory:
			printTurns(out, sess.Turns(), 0, true)
			continue
		}

		h.Handle(ctx, sess, line)
		printed = printTurns(out, sess.Turns(), printed, false)
	}
}

// printTurns writes turns[from:] and returns len(turns). User turns are
// skipped unless withUser is set, since the terminal already echoed them.
func printTurns(out io.Writer, turns []models.ConversationTurn, from int, withUser bool) int {
	for _, turn := range turns[from:] {
		if turn.Sender == models.SenderUser {
			if withUser {
				fmt.Fprintf(out, "You: %s\n", turn.Text)
			}
			continue
		}
		fmt.Fprintf(out, "Lucy: %s\n", turn.Text)
		for _, r := range turn.AttachedRecipes {
			fmt.Fprintln(out, recipeCard(r))
		}
	}
	return len(turns)
}

// recipeCard renders "name (rating)", adding the total time when known.
func recipeCard(r models.Recipe) string {
	if minutes := r.TotalTimeMinutes(); minutes > 0 {
		return fmt.Sprintf("  * %s (%.1f, %d min)", r.Name, r.Rating, minutes)
	}
	return fmt.Sprintf("  * %s (%.1f)", r.Name, r.Rating)
}
