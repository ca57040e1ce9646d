package player

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"trimatch/engine"
	"trimatch/game"
	"trimatch/utils"
)

const helpText = `
TriMatch Help
=============
Game Rules:
  • 3×3 grid, cols a-b-c, rows 1-2-3
  • Tiles: N=Noble, K=Knight, M=Mystic; there are 3 of each
  • On your turn, place on empty or replace a lower rank tile (e.g., Mb2)
  • Win by making three of the same in a line (e.g., N-N-N)
  • Lose immediately if you make an N-K-M (any order) line

Commands:
  q     Quit game
  n, n1 New game (Player 1 starts)
  n2    New game (Player 2 starts)
  m     Show move history
  u     Undo last two moves (AI + your last)
  d     Show current AI difficulty
  d#    Set AI difficulty to lookahead depth #
  h     Hint for best human move (AI-helper)
  ?     Show this help text
`

const invalidInput = "Invalid input: enter a move like 'Mb2' or a command (q, n, n1, n2, m, h, u, d, d#, ?)."

// Player is the terminal front end for one session. In human-vs-computer games the computer
// moves as soon as it is its turn.
type Player struct {
	session *engine.Session
	in      *bufio.Scanner
	out     *termenv.Output
}

// NewPlayer reads commands from in and writes to out. Options select the color profile, e.g.
// termenv.WithProfile(termenv.Ascii) for plain text.
func NewPlayer(session *engine.Session, in io.Reader, out io.Writer, options ...termenv.OutputOption) *Player {
	return &Player{
		session: session,
		in:      bufio.NewScanner(in),
		out:     termenv.NewOutput(out, options...),
	}
}

// Play runs the command loop until the user quits or the input ends.
func (p *Player) Play() error {
	for {
		view := p.session.State()
		p.printBoard(view.Board)

		if !view.Terminal && p.session.Mode() == engine.HumanVsComputer && view.Mover == engine.Computer {
			result, _, err := p.session.PlayAI()
			if err != nil {
				return fmt.Errorf("computer failed to move: %w", err)
			}
			p.println(fmt.Sprintf("Player 1 (Computer) > %s", result.Move))
			p.report(result)
			continue
		}

		fmt.Fprintf(p.out, "Player %d > ", view.Mover)
		if !p.in.Scan() {
			p.println("")
			return p.in.Err()
		}
		if quit := p.handle(strings.ToLower(strings.TrimSpace(p.in.Text())), view); quit {
			return nil
		}
	}
}

// handle runs one command and reports whether to quit.
func (p *Player) handle(cmd string, view engine.View) bool {
	switch {
	case cmd == "q":
		p.println("Quitting game.")
		return true
	case cmd == "n" || cmd == "n1":
		p.session.NewGame(game.Player1)
	case cmd == "n2":
		p.session.NewGame(game.Player2)
	case cmd == "m":
		p.printMoves()
	case cmd == "u":
		p.undo()
	case cmd == "d":
		p.println(fmt.Sprintf("AI difficulty set to depth %d", p.session.Difficulty()))
	case strings.HasPrefix(cmd, "d") && isDigits(cmd[1:]):
		level, err := strconv.Atoi(cmd[1:])
		if err != nil {
			p.warn(invalidInput)
			break
		}
		p.println(fmt.Sprintf("AI difficulty set to depth %d", p.session.SetDifficulty(level)))
	case cmd == "h":
		p.hint()
	case cmd == "?":
		p.println(helpText)
	case view.Terminal:
		p.warn("Game over. Enter 'n' to start a new game.")
	default:
		p.move(cmd, view.Board)
	}
	return false
}

func (p *Player) move(cmd string, b game.Board) {
	m, err := game.ParseMove(cmd)
	if err != nil {
		p.warn(invalidInput)
		return
	}

	result, err := p.session.SubmitMove(m)
	switch {
	case err == nil:
		p.report(result)
	case errors.Is(err, game.ErrInvalidMove) && b.At(m.Row, m.Col) == game.Empty:
		p.warn("Invalid move: no more of that tile available.")
	case errors.Is(err, game.ErrInvalidMove):
		p.warn("Invalid move: can only replace with a higher tile and within pool limits.")
	default:
		p.warn(err.Error())
	}
}

func (p *Player) printMoves() {
	moves := p.session.Moves()
	if len(moves) == 0 {
		p.println("No moves made yet.")
		return
	}
	for i, m := range moves {
		p.println(fmt.Sprintf("%d. Player %d: %s", i+1, m.Player, m.Move))
	}
}

func (p *Player) undo() {
	if _, err := p.session.Undo(); err != nil {
		p.warn("Nothing to undo.")
		return
	}
	if p.session.Mode() == engine.HumanVsComputer {
		p.println("Last two moves undone; back to your turn.")
	} else {
		p.println("Last move undone.")
	}
}

func (p *Player) hint() {
	hint, err := p.session.Hint()
	if err != nil {
		if p.session.Mode() == engine.HumanVsComputer {
			p.warn("Help is only available on your (Player 2’s) turn in an ongoing game.")
		} else {
			p.warn("Help is only available in an ongoing game.")
		}
		return
	}

	moves := utils.Map(hint.Moves, game.Move.Token)
	switch {
	case hint.Result == game.Win:
		p.println("You can force a win with move(s): " + strings.Join(moves, " "))
	case hint.Result == game.Draw:
		p.println("You can force at least a draw with move(s): " + strings.Join(moves, " "))
	case p.session.Mode() == engine.HumanVsComputer:
		p.println("No matter what, AI can force a win. Best you can do: " + strings.Join(moves, " "))
	default:
		p.println("No matter what, your opponent can force a win. Best you can do: " + strings.Join(moves, " "))
	}
}

// report prints the end of a game, if the move ended it.
func (p *Player) report(result engine.Result) {
	if !result.Outcome.Terminal() {
		return
	}
	p.printBoard(result.State.Board)

	if p.session.Mode() == engine.TwoHuman {
		switch result.Outcome {
		case game.Loss:
			p.lose(fmt.Sprintf("Player %d loses by forming an N-K-M line! Player %d wins!", result.Player, result.Winner))
		case game.Win:
			p.win(fmt.Sprintf("Player %d wins with a three-of-a-kind!", result.Player))
		default:
			p.println("Game ends in a draw. This should never happen!")
		}
		return
	}

	computer := result.Player == engine.Computer
	switch {
	case result.Outcome == game.Loss && computer:
		p.win("Computer loses by forming an N-K-M line! You win!")
	case result.Outcome == game.Loss:
		p.lose("You lose by forming an N-K-M line! Computer wins!")
	case result.Outcome == game.Win && computer:
		p.lose("Computer wins with a three-of-a-kind! You lose!")
	case result.Outcome == game.Win:
		p.win("You win with a three-of-a-kind! Computer loses!")
	default:
		p.println("Game ends in a draw. This should never happen!")
	}

	if result.LeveledUp {
		p.println(fmt.Sprintf("You leveled up! AI is now at depth %d.", p.session.Difficulty()))
	} else if result.TopLevel {
		p.win("🎉 Congratulations! You’ve beaten TriMatch at the highest level! 🎉")
	}
}

func (p *Player) printBoard(b game.Board) {
	var sb strings.Builder
	for _, r := range b.String() {
		// Only pieces are upper case, the column header is not
		if rank, ok := game.RankFromLetter(byte(r)); ok && r >= 'A' && r <= 'Z' {
			sb.WriteString(p.piece(rank))
			continue
		}
		sb.WriteRune(r)
	}
	fmt.Fprint(p.out, sb.String())
}

func (p *Player) piece(rank game.Rank) string {
	style := p.out.String(string(rank.Letter())).Bold()
	switch rank {
	case game.Noble:
		style = style.Foreground(p.out.Color("6"))
	case game.Knight:
		style = style.Foreground(p.out.Color("3"))
	case game.Mystic:
		style = style.Foreground(p.out.Color("5"))
	}
	return style.String()
}

func (p *Player) println(s string) {
	fmt.Fprintln(p.out, s)
}

func (p *Player) warn(s string) {
	fmt.Fprintln(p.out, p.out.String(s).Foreground(p.out.Color("3")))
}

func (p *Player) win(s string) {
	fmt.Fprintln(p.out, p.out.String(s).Foreground(p.out.Color("2")).Bold())
}

func (p *Player) lose(s string) {
	fmt.Fprintln(p.out, p.out.String(s).Foreground(p.out.Color("1")).Bold())
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
