package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"trimatch/communication"
	"trimatch/engine"
	"trimatch/game"
	"trimatch/gamemaster"
	"trimatch/meta"
	"trimatch/searcher"
	"trimatch/searcher/agent"
	"trimatch/utils"
)

type ServerCommunicator struct {
	gm         *gamemaster.GameMaster
	goroutines int
}

// NewServerCommunicator serves the games of gm. Each new game searches with the given number of
// goroutines.
func NewServerCommunicator(gm *gamemaster.GameMaster, goroutines int) *ServerCommunicator {
	return &ServerCommunicator{gm: gm, goroutines: goroutines}
}

func (sc *ServerCommunicator) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Route("/api/games", func(r chi.Router) {
		r.Post("/", sc.handleNewGame)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", sc.withSession(sc.handleGetState))
			r.Delete("/", sc.handleDeleteGame)
			r.Get("/moves/legal", sc.withSession(sc.handleLegalMoves))
			r.Post("/moves", sc.withSession(sc.handleSubmitMove))
			r.Post("/ai", sc.withSession(sc.handlePlayAI))
			r.Get("/hint", sc.withSession(sc.handleHint))
			r.Post("/undo", sc.withSession(sc.handleUndo))
			r.Put("/difficulty", sc.withSession(sc.handleSetDifficulty))
		})
	})
	return r
}

// Start serves HTTP on addr until ctx is done, then shuts down gracefully.
func (sc *ServerCommunicator) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           sc.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()
	log.Info().Msgf("listening on %s", addr)

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err, ok := <-serverErrCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, id uuid.UUID, session *engine.Session)

func (sc *ServerCommunicator) withSession(handler sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, gamemaster.ErrSessionNotFound)
			return
		}
		session, err := sc.gm.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}
		handler(w, r, id, session)
	}
}

func (sc *ServerCommunicator) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var payload communication.NewGameRequest
	// An empty body starts a default game
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "invalid payload"})
		return
	}

	starting := game.Player(payload.StartingPlayer)
	if payload.StartingPlayer == 0 {
		starting = game.Player1
	}
	if !starting.Valid() {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "starting_player must be 1 or 2"})
		return
	}
	mode, err := engine.ParseMode(payload.Mode)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: err.Error()})
		return
	}

	options := []agent.Option{
		agent.WithSearcher(searcher.NewSearcher(searcher.WithGoroutines(sc.goroutines))),
		agent.WithDifficulty(meta.DEFAULT_DIFFICULTY),
	}
	if payload.Difficulty != 0 {
		options = append(options, agent.WithDifficulty(payload.Difficulty))
	}
	if payload.Seed != nil {
		options = append(options, agent.WithSeed(*payload.Seed))
	}

	id, session := sc.gm.Create(engine.WithMode(mode), engine.WithAgent(agent.NewMinimaxAgent(options...)))
	view := session.NewGame(starting)
	writeJSON(w, http.StatusCreated, toGameState(id, view))
}

func (sc *ServerCommunicator) handleGetState(w http.ResponseWriter, r *http.Request, id uuid.UUID, session *engine.Session) {
	writeJSON(w, http.StatusOK, toGameState(id, session.State()))
}

func (sc *ServerCommunicator) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, gamemaster.ErrSessionNotFound)
		return
	}
	if err := sc.gm.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (sc *ServerCommunicator) handleLegalMoves(w http.ResponseWriter, r *http.Request, id uuid.UUID, session *engine.Session) {
	writeJSON(w, http.StatusOK, communication.LegalMovesResponse{Moves: tokens(session.LegalMoves())})
}

func (sc *ServerCommunicator) handleSubmitMove(w http.ResponseWriter, r *http.Request, id uuid.UUID, session *engine.Session) {
	var payload communication.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "invalid payload"})
		return
	}
	result, err := session.SubmitToken(payload.Move)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMoveResponse(id, result, nil))
}

func (sc *ServerCommunicator) handlePlayAI(w http.ResponseWriter, r *http.Request, id uuid.UUID, session *engine.Session) {
	result, decision, err := session.PlayAI()
	if err != nil {
		writeError(w, err)
		return
	}
	score := decision.Score
	writeJSON(w, http.StatusOK, toMoveResponse(id, result, &score))
}

func (sc *ServerCommunicator) handleHint(w http.ResponseWriter, r *http.Request, id uuid.UUID, session *engine.Session) {
	hint, err := session.Hint()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, communication.HintResponse{
		Result: hint.Result.String(),
		Moves:  tokens(hint.Moves),
		Score:  hint.Score,
	})
}

func (sc *ServerCommunicator) handleUndo(w http.ResponseWriter, r *http.Request, id uuid.UUID, session *engine.Session) {
	view, err := session.Undo()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGameState(id, view))
}

func (sc *ServerCommunicator) handleSetDifficulty(w http.ResponseWriter, r *http.Request, id uuid.UUID, session *engine.Session) {
	var payload communication.DifficultyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "invalid payload"})
		return
	}
	session.SetDifficulty(payload.Level)
	writeJSON(w, http.StatusOK, toGameState(id, session.State()))
}

func toGameState(id uuid.UUID, view engine.View) communication.GameState {
	moves := make([]communication.LoggedMove, len(view.Moves))
	for i, m := range view.Moves {
		moves[i] = communication.LoggedMove{Player: int(m.Player), Move: m.Move.Token()}
	}
	return communication.GameState{
		ID:         id.String(),
		Mode:       view.Mode.String(),
		Board:      communication.EncodeBoard(view.Board),
		Mover:      int(view.Mover),
		Moves:      moves,
		Outcome:    view.Outcome.String(),
		Winner:     int(view.Winner),
		Terminal:   view.Terminal,
		Difficulty: view.Difficulty,
	}
}

func toMoveResponse(id uuid.UUID, result engine.Result, score *int) communication.MoveResponse {
	return communication.MoveResponse{
		Player:    int(result.Player),
		Move:      result.Move.Token(),
		Outcome:   result.Outcome.String(),
		Winner:    int(result.Winner),
		LeveledUp: result.LeveledUp,
		TopLevel:  result.TopLevel,
		Score:     score,
		State:     toGameState(id, result.State),
	}
}

func tokens(moves []game.Move) []string {
	return utils.Map(moves, game.Move.Token)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, gamemaster.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrNothingToUndo),
		errors.Is(err, engine.ErrGameOver),
		errors.Is(err, engine.ErrNotHumanTurn):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, communication.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}
