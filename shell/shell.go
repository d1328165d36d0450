package shell

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"connect/agent"
	"connect/game"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"
)

const help = `Commands:
  <n>    play move n (a column in connect four, a cell 0-8 in tic-tac-toe)
  new    start a new game
  board  show the board
  help   show this message
  exit   leave`

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// Session is one interactive game between a human and an optional opponent.
// With no opponent the human plays both sides.
type Session struct {
	rules    game.Rules
	board    *game.Board
	human    game.Color
	opponent agent.Agent
	out      io.Writer
}

func NewSession(rules game.Rules, human game.Color, opponent agent.Agent, out io.Writer) *Session {
	return &Session{
		rules:    rules,
		board:    game.NewBoard(rules),
		human:    human,
		opponent: opponent,
		out:      out,
	}
}

func (s *Session) Board() *game.Board {
	return s.board
}

// Start shows the board and lets the opponent open if it plays O.
func (s *Session) Start() error {
	s.board = game.NewBoard(s.rules)
	showMessage(s.board.Render(true), s.out)
	return s.reply()
}

// Handle processes one line of input. It reports whether the user asked to leave.
func (s *Session) Handle(line string) (bool, error) {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false, nil
	case "exit", "quit":
		return true, nil
	case "help":
		showMessage(help, s.out)
		return false, nil
	case "board":
		showMessage(s.board.Render(true), s.out)
		return false, nil
	case "new":
		return false, s.Start()
	}

	if s.board.IsOver() {
		showMessage("Game is over. Type new to play again.", s.out)
		return false, nil
	}

	n, err := strconv.Atoi(line)
	if err != nil {
		showMessage(fmt.Sprintf("%q is not a move. Type help for commands.", line), s.out)
		return false, nil
	}
	move := game.Move(n)
	if n < 0 || n >= s.rules.MoveSpace() {
		showMessage(fmt.Sprintf("Move must be between 0 and %d.", s.rules.MoveSpace()-1), s.out)
		return false, nil
	}
	if !s.board.IsLegal(move) {
		showMessage(fmt.Sprintf("Move %d is not legal here.", n), s.out)
		return false, nil
	}

	if err := s.play(move); err != nil {
		return false, err
	}
	return false, s.reply()
}

func (s *Session) play(move game.Move) error {
	mover := s.board.Turn()
	if err := s.board.Play(mover, move); err != nil {
		return err
	}
	showMessage(fmt.Sprintf("%s plays %d", mover, move), s.out)
	showMessage(s.board.Render(true), s.out)

	switch {
	case s.board.IsWinning(mover):
		showMessage(fmt.Sprintf("*** %s wins! ***", mover), s.out)
	case s.board.IsTie():
		showMessage("*** Tie! ***", s.out)
	}
	return nil
}

// reply lets the opponent move while it is not the human's turn.
func (s *Session) reply() error {
	for s.opponent != nil && !s.board.IsOver() && s.board.Turn() != s.human {
		move, err := s.opponent.FindMove(s.board.Copy())
		if err != nil {
			return fmt.Errorf("opponent: %w", err)
		}
		if err := s.play(move); err != nil {
			return fmt.Errorf("opponent: %w", err)
		}
	}
	return nil
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// Controller runs a Session on a readline terminal.
type Controller struct {
	l       *readline.Instance
	session *Session
}

func NewController(session *Session) (*Controller, error) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mconnect>\033[0m ",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	session.out = l.Stdout()
	return &Controller{l: l, session: session}, nil
}

func (c *Controller) Loop() error {
	defer c.l.Close()

	showMessage(help, c.session.out)
	if err := c.session.Start(); err != nil {
		return err
	}

	for {
		line, err := c.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}

		done, err := c.session.Handle(line)
		if err != nil {
			log.Error().Err(err).Msg("")
			return err
		}
		if done {
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
	return nil
}
