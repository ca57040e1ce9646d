package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"trimatch/game"
	"trimatch/searcher/agent"
	"trimatch/utils"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrGameOver      = errors.New("game is over")
	ErrNotHumanTurn  = errors.New("not the human player's turn")
)

type Mode int

const (
	HumanVsComputer Mode = iota
	TwoHuman
)

// In human-vs-computer games the computer is always Player 1.
const (
	Computer = game.Player1
	Human    = game.Player2
)

func (m Mode) String() string {
	switch m {
	case HumanVsComputer:
		return "computer"
	case TwoHuman:
		return "two-human"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "computer", "human-vs-computer":
		return HumanVsComputer, nil
	case "two-human", "human":
		return TwoHuman, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// LoggedMove is one entry of the move history.
type LoggedMove struct {
	Player game.Player
	Move   game.Move
}

// View is a copy of a session's state. Changing it does not affect the session.
type View struct {
	Mode       Mode
	Board      game.Board
	Mover      game.Player
	Moves      []LoggedMove
	Outcome    game.Outcome
	Winner     game.Player
	Terminal   bool
	Difficulty int
}

// Result describes an applied move.
type Result struct {
	Player  game.Player
	Move    game.Move
	Outcome game.Outcome
	Winner  game.Player
	// Set when a human beat the computer
	LeveledUp bool
	TopLevel  bool // Already at the highest difficulty
	// Session state right after the move
	State View
}

type snapshot struct {
	state game.State
	moves []LoggedMove
}

type SessionOption func(s *Session)

func WithMode(mode Mode) SessionOption {
	return func(s *Session) {
		s.mode = mode
	}
}

func WithAgent(a *agent.MinimaxAgent) SessionOption {
	return func(s *Session) {
		if a != nil {
			s.agent = a
		}
	}
}

// Session is one game with its undo history and its own computer player. All methods are safe
// for concurrent use and serialize on the session.
type Session struct {
	mu      sync.Mutex
	mode    Mode
	agent   *agent.MinimaxAgent
	state   game.State
	moves   []LoggedMove
	history []snapshot
	outcome game.Outcome
}

// NewSession starts a game with Player 1 to move.
func NewSession(options ...SessionOption) *Session {
	s := &Session{mode: HumanVsComputer}
	for _, option := range options {
		option(s)
	}
	if s.agent == nil {
		s.agent = agent.NewMinimaxAgent()
	}
	s.newGame(game.Player1)
	return s
}

// NewGame clears the board, the move log and the undo history.
func (s *Session) NewGame(starting game.Player) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.newGame(starting)
	return s.view()
}

func (s *Session) newGame(starting game.Player) {
	s.state = game.NewState(starting)
	s.moves = nil
	s.history = nil
	s.outcome = game.Ongoing
}

func (s *Session) Mode() Mode {
	return s.mode
}

func (s *Session) State() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.view()
}

func (s *Session) view() View {
	return View{
		Mode:       s.mode,
		Board:      s.state.Board,
		Mover:      s.state.Mover,
		Moves:      slices.Clone(s.moves),
		Outcome:    s.outcome,
		Winner:     s.winner(),
		Terminal:   s.outcome.Terminal(),
		Difficulty: s.agent.Difficulty(),
	}
}

func (s *Session) winner() game.Player {
	if !s.outcome.Terminal() {
		return game.NoPlayer
	}
	return game.Winner(s.outcome, s.state.LastMover())
}

// Moves returns the move log, oldest first.
func (s *Session) Moves() []LoggedMove {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.moves)
}

// LegalMoves is empty once the game is over.
func (s *Session) LegalMoves() []game.Move {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.LegalMoves()
}

// SubmitMove plays m for the side to move. In human-vs-computer games only the human's moves
// are accepted; the computer moves through PlayAI.
func (s *Session) SubmitMove(m game.Move) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == HumanVsComputer && s.state.Mover == Computer && !s.outcome.Terminal() {
		return Result{}, ErrNotHumanTurn
	}
	return s.submit(m, false)
}

// SubmitToken parses a move like "Mb2" and submits it.
func (s *Session) SubmitToken(token string) (Result, error) {
	m, err := game.ParseMove(token)
	if err != nil {
		return Result{}, err
	}
	return s.SubmitMove(m)
}

// submit plays m. byAgent marks moves picked by the agent; an agent move in the human's seat never
// counts as a human win.
func (s *Session) submit(m game.Move, byAgent bool) (Result, error) {
	if s.outcome.Terminal() {
		return Result{}, ErrGameOver
	}
	if utils.FindIndex(s.state.LegalMoves(), m) < 0 {
		if err := game.IsLegal(s.state.Board, m); err != nil {
			return Result{}, fmt.Errorf("%s cannot play %s: %w", s.state.Mover, m, err)
		}
		return Result{}, fmt.Errorf("%s cannot play %s: %w", s.state.Mover, m, game.ErrInvalidMove)
	}

	s.history = append(s.history, snapshot{state: s.state, moves: slices.Clone(s.moves)})
	mover := s.state.Mover
	s.state = s.state.Play(m)
	s.moves = append(s.moves, LoggedMove{Player: mover, Move: m})
	s.outcome = s.state.Outcome()

	result := Result{Player: mover, Move: m, Outcome: s.outcome, Winner: s.winner()}
	log.Debug().Msgf("%s played %s (%s)", mover, m, s.outcome)
	if s.outcome.Terminal() {
		log.Info().Msgf("game over after %d moves: %s by %s, winner %s", len(s.moves), s.outcome, mover, result.Winner)
		if s.mode == HumanVsComputer && result.Winner == Human && !(byAgent && mover == Human) {
			result.LeveledUp = s.agent.LevelUp()
			result.TopLevel = !result.LeveledUp
		}
	}
	result.State = s.view()
	return result, nil
}

// AIMove returns the computer's choice for the side to move without playing it.
func (s *Session) AIMove() (agent.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.aiMove()
}

func (s *Session) aiMove() (agent.Decision, error) {
	if s.outcome.Terminal() {
		return agent.Decision{}, ErrGameOver
	}
	return s.agent.ChooseMove(s.state.Board, s.state.Mover, len(s.moves))
}

// PlayAI lets the computer choose and play a move for the side to move. A win it plays on the
// human's turn does not raise the difficulty.
func (s *Session) PlayAI() (Result, agent.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	decision, err := s.aiMove()
	if err != nil {
		return Result{}, decision, err
	}
	result, err := s.submit(decision.Move, true)
	return result, decision, err
}

// Hint solves the position for the side to move. In human-vs-computer games it is only given on
// the human's turn.
func (s *Session) Hint() (agent.Hint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outcome.Terminal() {
		return agent.Hint{}, ErrGameOver
	}
	if s.mode == HumanVsComputer && s.state.Mover != Human {
		return agent.Hint{}, ErrNotHumanTurn
	}
	return s.agent.Hint(s.state.Board, s.state.Mover)
}

// Undo takes back the last move, or the last two in human-vs-computer games so that the computer's
// reply is undone together with the human's move.
func (s *Session) Undo() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 1
	if s.mode == HumanVsComputer {
		n = 2
	}
	if len(s.history) < n {
		return s.view(), ErrNothingToUndo
	}

	restored := s.history[len(s.history)-n]
	s.history = s.history[:len(s.history)-n]
	s.state = restored.state
	s.moves = restored.moves
	s.outcome = game.Ongoing
	return s.view(), nil
}

// SetDifficulty clamps level and returns the level in effect.
func (s *Session) SetDifficulty(level int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.agent.SetDifficulty(level)
}

func (s *Session) Difficulty() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.agent.Difficulty()
}
