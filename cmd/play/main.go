// Package main provides an interactive console host for playing a nested
// trivia game: roll the die, confirm the category, answer the question.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ayoola66/excellence-games/internal/config"
	"github.com/ayoola66/excellence-games/internal/game/catalog"
	"github.com/ayoola66/excellence-games/internal/game/dice"
	"github.com/ayoola66/excellence-games/internal/game/trivia"
	"github.com/ayoola66/excellence-games/internal/observability"
	"github.com/ayoola66/excellence-games/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	gameFile := flag.String("game", "", "path to a game YAML file (local play, no database)")
	gameID := flag.String("game-id", "", "ID of a game stored in the database")
	flag.Parse()

	if (*gameFile == "") == (*gameID == "") {
		log.Fatalf("exactly one of -game or -game-id must be given")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	var game *trivia.Game
	var recorder trivia.AnswerRecorder

	if *gameFile != "" {
		game, err = catalog.LoadGameFromFile(*gameFile)
		if err != nil {
			logger.Fatal("loading game file", zap.String("path", *gameFile), zap.Error(err))
		}
	} else {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		pool, perr := postgres.NewPool(connectCtx, cfg.Database)
		cancel()
		if perr != nil {
			logger.Fatal("connecting to database", zap.Error(perr))
		}
		defer pool.Close()

		game, err = postgres.NewGameRepository(pool.DB()).GetGame(ctx, *gameID)
		if err != nil {
			logger.Fatal("loading game", zap.String("game_id", *gameID), zap.Error(err))
		}
		recorder = postgres.NewAnswerRepository(pool.DB())
	}

	sessCfg := trivia.SessionConfig{
		WildcardFace:     cfg.Game.WildcardFace,
		ChooserLimit:     cfg.Game.ChooserLimit,
		AutoAdvanceDelay: cfg.Game.AutoAdvanceDelay,
	}
	src := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	sess, err := trivia.NewSession("", game, src, recorder, logger, sessCfg)
	if err != nil {
		logger.Fatal("starting session", zap.Error(err))
	}
	defer sess.Close()

	fmt.Printf("Playing %q (%d categories). Type 'help' for commands.\n", game.Name, len(game.Categories))
	printBoard(game)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		if cmd == "quit" || cmd == "exit" {
			break
		}
		runCommand(ctx, sess, cmd, args)
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("reading input", zap.Error(err))
	}
	fmt.Println("Goodbye.")
}

func runCommand(ctx context.Context, sess *trivia.Session, cmd string, args []string) {
	switch cmd {
	case "help":
		printHelp()
	case "board":
		printBoard(sess.Game())
	case "state":
		printState(sess)
	case "roll":
		face := sess.RollDie()
		if face == 0 {
			fmt.Println("Cannot roll right now.")
			return
		}
		afterRoll(sess, face)
	case "confirm":
		if err := sess.ConfirmRoll(); err != nil {
			fmt.Printf("Cannot proceed: %v\n", err)
			return
		}
		printQuestion(sess)
	case "pick":
		if len(args) != 1 {
			fmt.Println("Usage: pick <category-id>")
			return
		}
		if err := sess.ChooseCategory(args[0]); err != nil {
			fmt.Printf("Cannot pick category: %v\n", err)
			return
		}
		printQuestion(sess)
	case "options":
		sess.RevealOptions()
		printQuestion(sess)
	case "select":
		if len(args) != 1 {
			fmt.Println("Usage: select <a|b|c|d>")
			return
		}
		sess.SelectOption(trivia.OptionKey(strings.ToLower(args[0])))
		if sess.Snapshot().SelectedKey == "" {
			fmt.Println("Selection not accepted.")
			return
		}
		fmt.Printf("Selected %s.\n", strings.ToUpper(args[0]))
	case "answer":
		sess.RevealAnswer()
		printVerdict(sess)
	case "submit":
		if err := sess.Submit(ctx); err != nil {
			fmt.Printf("Submission failed, try again: %v\n", err)
			return
		}
		printVerdict(sess)
	case "next":
		sess.NextTurn()
		fmt.Println("Back to the board. Roll when ready.")
	case "reset":
		sess.Reset()
		fmt.Println("Session reset. All progress cleared.")
	default:
		fmt.Printf("Unknown command %q. Type 'help'.\n", cmd)
	}
}

func afterRoll(sess *trivia.Session, face int) {
	fmt.Printf("You rolled a %d.\n", face)
	if sess.WildcardPending() {
		fmt.Println("Wildcard! Pick any category:")
		for _, cat := range sess.Chooser() {
			fmt.Printf("  pick %s  (%s)\n", cat.ID, cat.Name)
		}
		return
	}
	// Not a wildcard (WildcardPending was false), so 0 disables the
	// wildcard branch of the preview resolution.
	res := trivia.Resolve(face, sess.Game(), 0)
	if res.Kind == trivia.ResolutionResolved {
		fmt.Printf("Category: %s. Type 'confirm' to play it.\n", res.Category.Name)
		return
	}
	fmt.Println("That face maps to no category. Type 'next' and roll again.")
}

func printHelp() {
	fmt.Println(`Commands:
  roll              roll the die
  confirm           play the category the die landed on
  pick <id>         pick a category after a wildcard roll
  options           reveal the answer options
  select <a|b|c|d>  choose an option
  submit            submit your answer (records it, then reveals)
  answer            reveal the answer without submitting
  next              return to the board
  reset             start the session over
  board             show the category board
  state             show raw session state
  quit              leave the game`)
}

func printBoard(g *trivia.Game) {
	fmt.Println("Board:")
	for i := range g.Categories {
		cat := &g.Categories[i]
		slot := cat.Slot
		if slot == 0 {
			slot = i + 1
		}
		fmt.Printf("  [%d] %s (%s, %d questions)\n", slot, cat.Name, cat.ID, len(cat.Questions))
	}
}

func printQuestion(sess *trivia.Session) {
	q := sess.ActiveQuestion()
	if q == nil {
		fmt.Println("No question in play.")
		return
	}
	cat := sess.ActiveCategory()
	fmt.Printf("[%s] %s\n", cat.Name, q.Prompt)

	st := sess.Snapshot()
	if !st.OptionsRevealed {
		fmt.Println("Type 'options' to see the choices.")
		return
	}
	keys := make([]string, 0, len(q.Options))
	for k := range q.Options {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s) %s\n", strings.ToUpper(k), q.Options[trivia.OptionKey(k)])
	}
	fmt.Println("Type 'select <key>' then 'submit'.")
}

func printVerdict(sess *trivia.Session) {
	st := sess.Snapshot()
	if !st.AnswerRevealed {
		fmt.Println("No verdict yet.")
		return
	}
	q := sess.ActiveQuestion()
	if st.AnswerCorrect {
		fmt.Println("Correct!")
	} else {
		fmt.Printf("Not this time. The answer was %s) %s.\n",
			strings.ToUpper(string(q.CorrectKey)), q.Options[q.CorrectKey])
	}
	if q.Explanation != "" {
		fmt.Println(q.Explanation)
	}
	fmt.Println("Type 'next' for another turn.")
}

func printState(sess *trivia.Session) {
	st := sess.Snapshot()
	fmt.Printf("phase=%s die=%d awaiting=%v category=%q question=%q selected=%q options=%v answer=%v correct=%v inflight=%v\n",
		st.Phase, st.DieValue, st.AwaitingConfirmation, st.ActiveCategoryID, st.ActiveQuestionID,
		st.SelectedKey, st.OptionsRevealed, st.AnswerRevealed, st.AnswerCorrect, st.SubmissionInFlight)
}
