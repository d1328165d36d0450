package agent

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"connect/game"
	"connect/searcher"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	gin.SetMode(gin.TestMode)
	s := NewServer()
	s.Register("ttt", "optimal", NewOptimal(searcher.NewSolver()))
	s.Register("c4", "random", NewRandom(1))
	return s
}

func post(t *testing.T, handler http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/move", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestServerMove(t *testing.T) {
	handler := newTestServer().Handler()

	t.Run("answering with the optimal move", func(t *testing.T) {
		w := post(t, handler, MoveRequest{Agent: "optimal", Game: "ttt", Board: ". . .\nO O X\nX O X"})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var res MoveResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Equal(t, game.Move(1), res.Move, "O should complete the column")
	})

	t.Run("answering on the large board", func(t *testing.T) {
		b := game.NewBoard(game.ConnectFour)
		w := post(t, handler, MoveRequest{Agent: "random", Game: "c4", Board: b.String()})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var res MoveResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.True(t, b.IsLegal(res.Move), "Random move should be legal")
	})

	cases := []struct {
		name string
		req  any
		code int
	}{
		{"missing fields", map[string]string{"agent": "optimal"}, http.StatusBadRequest},
		{"unknown game", MoveRequest{Agent: "optimal", Game: "chess", Board: ". . ."}, http.StatusBadRequest},
		{"malformed board", MoveRequest{Agent: "optimal", Game: "ttt", Board: ". Z .\n. . .\n. . ."}, http.StatusBadRequest},
		{"wrong shape", MoveRequest{Agent: "optimal", Game: "ttt", Board: ". . . .\n. . . ."}, http.StatusBadRequest},
		{"already won", MoveRequest{Agent: "optimal", Game: "ttt", Board: "O O O\nX X .\n. . ."}, http.StatusBadRequest},
		{"unknown agent", MoveRequest{Agent: "mcts", Game: "ttt", Board: ". . .\n. . .\n. . ."}, http.StatusNotFound},
		{"agent registered for another game", MoveRequest{Agent: "random", Game: "ttt", Board: ". . .\n. . .\n. . ."}, http.StatusNotFound},
		{"full board", MoveRequest{Agent: "optimal", Game: "ttt", Board: "O X O\nO X X\nX O O"}, http.StatusConflict},
		{"X ahead of O", MoveRequest{Agent: "optimal", Game: "ttt", Board: "X X .\n. . .\n. . ."}, http.StatusBadRequest},
		{"O two ahead", MoveRequest{Agent: "optimal", Game: "ttt", Board: "O O .\nO . .\n. . ."}, http.StatusBadRequest},
		{"floating token", MoveRequest{Agent: "random", Game: "c4", Board: ". . . . . . .\nO . . . . . .\n. . . . . . .\n. . . . . . .\n. . . . . . .\n. . . . . . ."}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := post(t, handler, tc.req)

			require.Equal(t, tc.code, w.Code, w.Body.String())
			var e apiError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
			require.NotEmpty(t, e.Error, "Error responses should carry a message")
		})
	}
}

func TestServerHealth(t *testing.T) {
	handler := newTestServer().Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"optimal"`, "Health should list registered agents")
}

func TestRemote(t *testing.T) {
	ts := httptest.NewServer(newTestServer().Handler())
	defer ts.Close()

	t.Run("round trip", func(t *testing.T) {
		b, err := game.TicTacToe.Parse(". . .\nO X X\nX O O")
		require.NoError(t, err)

		move, err := NewRemote(ts.URL+"/", "optimal").FindMove(b)

		require.NoError(t, err)
		require.Equal(t, game.Move(2), move, "Remote optimal agent should block")
	})

	t.Run("conflict", func(t *testing.T) {
		b, err := game.TicTacToe.Parse("O X O\nO X X\nX O O")
		require.NoError(t, err)

		_, err = NewRemote(ts.URL, "optimal").FindMove(b)

		require.ErrorIs(t, err, ErrRejected, "Conflict should surface as a rejection")
	})

	t.Run("unknown agent", func(t *testing.T) {
		_, err := NewRemote(ts.URL, "nobody").FindMove(game.NewBoard(game.TicTacToe))

		require.Error(t, err)
		require.NotErrorIs(t, err, ErrRejected)
	})

	t.Run("custom rules", func(t *testing.T) {
		_, err := NewRemote(ts.URL, "optimal").FindMove(game.NewBoard(game.Rules{Rows: 4, Columns: 4, WinLength: 3}))

		require.Error(t, err, "Only preset games travel over the wire")
	})
}
