package agent

import (
	"errors"
	"fmt"
	"net/http"

	"connect/game"
	"connect/searcher"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// MoveRequest asks the named agent for a move on a text board.
type MoveRequest struct {
	Agent string `json:"agent" binding:"required"`
	Board string `json:"board" binding:"required"`
	Game  string `json:"game" binding:"required,oneof=c4 ttt"`
}

type MoveResponse struct {
	Move game.Move `json:"move"`
}

type apiError struct {
	Error string `json:"error"`
}

// Server serves agents over HTTP, keyed by game name and agent name.
type Server struct {
	agents map[string]map[string]Agent
}

func NewServer() *Server {
	return &Server{agents: map[string]map[string]Agent{}}
}

// Register makes a available as name for the game with the given short name.
func (s *Server) Register(gameName, name string, a Agent) {
	if _, err := game.RulesNamed(gameName); err != nil {
		panic(err)
	}
	if s.agents[gameName] == nil {
		s.agents[gameName] = map[string]Agent{}
	}
	s.agents[gameName][name] = a
}

// Handler builds the router. Registration must be complete before it serves.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.health)
	r.POST("/move", s.move)
	return r
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	log.Info().Msgf("agent server listening on %s", addr)
	return s.Handler().Run(addr)
}

func (s *Server) health(ctx *gin.Context) {
	names := map[string][]string{}
	for gameName, agents := range s.agents {
		for name := range agents {
			names[gameName] = append(names[gameName], name)
		}
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "agents": names})
}

func (s *Server) move(ctx *gin.Context) {
	var req MoveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, apiError{Error: "invalid move request: " + err.Error()})
		return
	}

	a, ok := s.agents[req.Game][req.Agent]
	if !ok {
		ctx.JSON(http.StatusNotFound, apiError{Error: fmt.Sprintf("no agent %q for game %q", req.Agent, req.Game)})
		return
	}

	rules, _ := game.RulesNamed(req.Game)
	board, err := rules.Parse(req.Board)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	if board.Rows() != rules.Rows || board.Columns() != rules.Columns {
		ctx.JSON(http.StatusBadRequest, apiError{Error: fmt.Sprintf("board is %dx%d, game %s is %dx%d",
			board.Rows(), board.Columns(), req.Game, rules.Rows, rules.Columns)})
		return
	}
	if err := board.Valid(); err != nil {
		ctx.JSON(http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	if winner := board.Winner(); winner != game.None {
		ctx.JSON(http.StatusBadRequest, apiError{Error: fmt.Sprintf("game is already won by %s", winner)})
		return
	}

	move, err := a.FindMove(board)
	switch {
	case errors.Is(err, game.ErrNoLegalMoves), errors.Is(err, searcher.ErrNotPrecomputed):
		ctx.JSON(http.StatusConflict, apiError{Error: err.Error()})
		return
	case err != nil:
		log.Warn().Err(err).Msgf("agent %s failed", req.Agent)
		ctx.JSON(http.StatusInternalServerError, apiError{Error: err.Error()})
		return
	}

	log.Debug().Msgf("agent %s plays %d for %s", req.Agent, move, board.Turn())
	ctx.JSON(http.StatusOK, MoveResponse{Move: move})
}
