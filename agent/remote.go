package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"connect/game"
)

type remoteAgent struct {
	baseURL string
	name    string
	client  *http.Client
}

// NewRemote returns an agent that asks the server at baseURL for moves of the
// agent registered there as name.
func NewRemote(baseURL, name string) Agent {
	return &remoteAgent{
		baseURL: strings.TrimRight(baseURL, "/"),
		name:    name,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *remoteAgent) FindMove(board *game.Board) (game.Move, error) {
	return a.FindMoveContext(context.Background(), board)
}

func (a *remoteAgent) FindMoveContext(ctx context.Context, board *game.Board) (game.Move, error) {
	gameName := board.Rules().Name()
	if gameName == "" {
		return 0, fmt.Errorf("remote agents only play preset games, got %+v", board.Rules())
	}
	body, err := json.Marshal(MoveRequest{Agent: a.name, Board: board.String(), Game: gameName})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/move", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := a.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to reach agent server: %w", err)
	}
	defer res.Body.Close()

	reply, err := readResponse[MoveResponse](res)
	if err != nil {
		return 0, err
	}
	if !board.IsLegal(reply.Move) {
		return 0, fmt.Errorf("%w: remote agent %s returned %d", game.ErrIllegalMove, a.name, reply.Move)
	}
	return reply.Move, nil
}

func readResponse[T any](res *http.Response) (T, error) {
	var zero T
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return zero, err
	}

	if res.StatusCode >= 400 {
		var e apiError
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			if res.StatusCode == http.StatusConflict {
				return zero, fmt.Errorf("%w: %s", ErrRejected, e.Error)
			}
			return zero, errors.New(e.Error)
		}
		return zero, fmt.Errorf("api error %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, &zero); err != nil {
		return zero, err
	}
	return zero, nil
}

// ErrRejected marks a well-formed request the remote agent could not answer.
var ErrRejected = errors.New("agent server rejected the position")
