package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"trimatch/communication"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type ClientCommunicator struct {
	serverURL string
	http      *http.Client
}

var _ communication.Communicator = (*ClientCommunicator)(nil)

// NewClientCommunicator talks to the server at serverURL, e.g. "http://localhost:8080".
func NewClientCommunicator(serverURL string, httpClient *http.Client) *ClientCommunicator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ClientCommunicator{
		serverURL: strings.TrimRight(serverURL, "/"),
		http:      httpClient,
	}
}

func (cc *ClientCommunicator) NewGame(ctx context.Context, req communication.NewGameRequest) (communication.GameState, error) {
	var state communication.GameState
	err := cc.do(ctx, http.MethodPost, "/api/games", req, &state)
	return state, err
}

func (cc *ClientCommunicator) GetGame(ctx context.Context, id string) (communication.GameState, error) {
	var state communication.GameState
	err := cc.do(ctx, http.MethodGet, gamePath(id, ""), nil, &state)
	return state, err
}

func (cc *ClientCommunicator) DeleteGame(ctx context.Context, id string) error {
	return cc.do(ctx, http.MethodDelete, gamePath(id, ""), nil, nil)
}

func (cc *ClientCommunicator) LegalMoves(ctx context.Context, id string) ([]string, error) {
	var resp communication.LegalMovesResponse
	err := cc.do(ctx, http.MethodGet, gamePath(id, "/moves/legal"), nil, &resp)
	return resp.Moves, err
}

func (cc *ClientCommunicator) SubmitMove(ctx context.Context, id, move string) (communication.MoveResponse, error) {
	var resp communication.MoveResponse
	err := cc.do(ctx, http.MethodPost, gamePath(id, "/moves"), communication.MoveRequest{Move: move}, &resp)
	return resp, err
}

func (cc *ClientCommunicator) PlayAI(ctx context.Context, id string) (communication.MoveResponse, error) {
	var resp communication.MoveResponse
	err := cc.do(ctx, http.MethodPost, gamePath(id, "/ai"), nil, &resp)
	return resp, err
}

func (cc *ClientCommunicator) Hint(ctx context.Context, id string) (communication.HintResponse, error) {
	var resp communication.HintResponse
	err := cc.do(ctx, http.MethodGet, gamePath(id, "/hint"), nil, &resp)
	return resp, err
}

func (cc *ClientCommunicator) Undo(ctx context.Context, id string) (communication.GameState, error) {
	var state communication.GameState
	err := cc.do(ctx, http.MethodPost, gamePath(id, "/undo"), nil, &state)
	return state, err
}

func (cc *ClientCommunicator) SetDifficulty(ctx context.Context, id string, level int) (communication.GameState, error) {
	var state communication.GameState
	err := cc.do(ctx, http.MethodPut, gamePath(id, "/difficulty"), communication.DifficultyRequest{Level: level}, &state)
	return state, err
}

func gamePath(id, suffix string) string {
	return "/api/games/" + id + suffix
}

func (cc *ClientCommunicator) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, cc.serverURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := cc.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr communication.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
