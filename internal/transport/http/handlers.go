package http

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"undercover/internal/domain"
)

const qrSize = 256

// Response is a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// looseInt accepts a JSON number or numeric string; anything else reads as 0.
// Out of range values clamp to the int32 range so validation can reject them.
type looseInt int

func (n *looseInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	switch {
	case err != nil || math.IsNaN(f):
		*n = 0
	case f > math.MaxInt32:
		*n = math.MaxInt32
	case f < math.MinInt32:
		*n = math.MinInt32
	default:
		*n = looseInt(f)
	}
	return nil
}

// roleCountsRequest is the role count part of create and settings requests
type roleCountsRequest struct {
	Primary  looseInt `json:"primary"`
	Decoy    looseInt `json:"decoy"`
	Wordless looseInt `json:"wordless"`
}

func (c roleCountsRequest) counts() domain.RoleCounts {
	return domain.RoleCounts{
		Primary:  int(c.Primary),
		Decoy:    int(c.Decoy),
		Wordless: int(c.Wordless),
	}.Normalize()
}

// CreateLobbyRequest is the body of POST /api/lobbies
type CreateLobbyRequest struct {
	Username string `json:"username"`
	roleCountsRequest
}

// CreateLobbyResponse is the response for lobby creation
type CreateLobbyResponse struct {
	LobbyCode  string           `json:"lobbyCode"`
	PlayerID   string           `json:"playerId"`
	HostCode   string           `json:"hostCode"`
	InviteLink string           `json:"inviteLink"`
	Lobby      domain.LobbyView `json:"lobby"`
}

// JoinLobbyRequest is the body of POST /api/lobbies/{code}/join
type JoinLobbyRequest struct {
	Username string `json:"username"`
	HostCode string `json:"hostCode,omitempty"`
}

// JoinLobbyResponse is the response for joining a lobby
type JoinLobbyResponse struct {
	LobbyCode string           `json:"lobbyCode"`
	PlayerID  string           `json:"playerId"`
	IsHost    bool             `json:"isHost"`
	Lobby     domain.LobbyView `json:"lobby"`
}

// PlayerRequest identifies the calling player
type PlayerRequest struct {
	PlayerID string `json:"playerId"`
}

// HostRequest identifies the calling host
type HostRequest struct {
	HostID string `json:"hostId"`
}

// TargetRequest is a host action against another player
type TargetRequest struct {
	HostID   string `json:"hostId"`
	TargetID string `json:"targetId"`
}

// SettingsRequest is the body of POST /api/lobbies/{code}/settings
type SettingsRequest struct {
	HostID string `json:"hostId"`
	roleCountsRequest
}

// GuessRequest is the body of POST /api/lobbies/{code}/guess
type GuessRequest struct {
	PlayerID string `json:"playerId"`
	Guess    string `json:"guess"`
}

// EliminateResponse is the response for eliminating a player
type EliminateResponse struct {
	GuessTriggered bool             `json:"guessTriggered"`
	Lobby          domain.LobbyView `json:"lobby"`
}

// GuessResponse is the response for a guess
type GuessResponse struct {
	Correct bool             `json:"correct"`
	Lobby   domain.LobbyView `json:"lobby"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	Lobbies    int               `json:"lobbies"`
	Vocabulary domain.Vocabulary `json:"vocabulary"`
}

// handleCreateLobby handles POST /api/lobbies
func (s *Server) handleCreateLobby(w http.ResponseWriter, r *http.Request) {
	var req CreateLobbyRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.manager.CreateLobby(r.Context(), req.Username, req.counts())
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, &CreateLobbyResponse{
		LobbyCode:  res.Lobby.Code,
		PlayerID:   res.Host.ID,
		HostCode:   res.HostSecret,
		InviteLink: inviteLink(r, res.Lobby.Code),
		Lobby:      s.manager.View(res.Lobby),
	})
}

// handleGetLobby handles GET /api/lobbies/{code}
func (s *Server) handleGetLobby(w http.ResponseWriter, r *http.Request) {
	lobby, err := s.manager.GetLobby(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, s.manager.View(lobby))
}

// handleInviteQR handles GET /api/lobbies/{code}/qr.png
func (s *Server) handleInviteQR(w http.ResponseWriter, r *http.Request) {
	lobby, err := s.manager.GetLobby(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	png, err := qrcode.Encode(inviteLink(r, lobby.Code), qrcode.Medium, qrSize)
	if err != nil {
		s.logger.Error("qr generation failed", "code", lobby.Code, "error", err)
		s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "QR generation failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// handleJoinLobby handles POST /api/lobbies/{code}/join
func (s *Server) handleJoinLobby(w http.ResponseWriter, r *http.Request) {
	var req JoinLobbyRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.manager.JoinLobby(r.Context(), chi.URLParam(r, "code"), req.Username, req.HostCode)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, &JoinLobbyResponse{
		LobbyCode: res.Lobby.Code,
		PlayerID:  res.Player.ID,
		IsHost:    res.Lobby.IsHost(res.Player.ID),
		Lobby:     s.manager.View(res.Lobby),
	})
}

// handlePlayerState handles POST /api/lobbies/{code}/me
func (s *Server) handlePlayerState(w http.ResponseWriter, r *http.Request) {
	var req PlayerRequest
	if !s.decode(w, r, &req) || !s.require(w, req.PlayerID, "playerId") {
		return
	}

	state, err := s.manager.GetPlayerState(r.Context(), chi.URLParam(r, "code"), req.PlayerID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, state)
}

// handleHeartbeat handles POST /api/lobbies/{code}/heartbeat
func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	var req PlayerRequest
	if !s.decode(w, r, &req) || !s.require(w, req.PlayerID, "playerId") {
		return
	}

	if err := s.manager.Heartbeat(r.Context(), chi.URLParam(r, "code"), req.PlayerID); err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, nil)
}

// handleKick handles POST /api/lobbies/{code}/kick
func (s *Server) handleKick(w http.ResponseWriter, r *http.Request) {
	var req TargetRequest
	if !s.decode(w, r, &req) || !s.require(w, req.HostID, "hostId") || !s.require(w, req.TargetID, "targetId") {
		return
	}

	lobby, err := s.manager.KickFromLobby(r.Context(), chi.URLParam(r, "code"), req.HostID, req.TargetID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, s.manager.View(lobby))
}

// handleUpdateSettings handles POST /api/lobbies/{code}/settings
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if !s.decode(w, r, &req) || !s.require(w, req.HostID, "hostId") {
		return
	}

	lobby, err := s.manager.UpdateSettings(r.Context(), chi.URLParam(r, "code"), req.HostID, req.counts())
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, s.manager.View(lobby))
}

// handleStartGame handles POST /api/lobbies/{code}/start. Only the current
// host may start; the engine call itself is unauthenticated.
func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req HostRequest
	if !s.decode(w, r, &req) || !s.require(w, req.HostID, "hostId") {
		return
	}

	code := chi.URLParam(r, "code")
	current, err := s.manager.GetLobby(r.Context(), code)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	if !current.IsHost(req.HostID) {
		s.sendDomainError(w, domain.ErrNotHost)
		return
	}

	lobby, err := s.manager.StartGame(r.Context(), code)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, s.manager.View(lobby))
}

// handleEliminate handles POST /api/lobbies/{code}/eliminate
func (s *Server) handleEliminate(w http.ResponseWriter, r *http.Request) {
	var req TargetRequest
	if !s.decode(w, r, &req) || !s.require(w, req.HostID, "hostId") || !s.require(w, req.TargetID, "targetId") {
		return
	}

	res, err := s.manager.Eliminate(r.Context(), chi.URLParam(r, "code"), req.HostID, req.TargetID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, &EliminateResponse{
		GuessTriggered: res.GuessTriggered,
		Lobby:          s.manager.View(res.Lobby),
	})
}

// handleGuess handles POST /api/lobbies/{code}/guess
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req GuessRequest
	if !s.decode(w, r, &req) || !s.require(w, req.PlayerID, "playerId") {
		return
	}

	res, err := s.manager.SubmitGuess(r.Context(), chi.URLParam(r, "code"), req.PlayerID, req.Guess)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, &GuessResponse{
		Correct: res.Correct,
		Lobby:   s.manager.View(res.Lobby),
	})
}

// handleReset handles POST /api/lobbies/{code}/reset
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req HostRequest
	if !s.decode(w, r, &req) || !s.require(w, req.HostID, "hostId") {
		return
	}

	lobby, err := s.manager.ResetLobby(r.Context(), chi.URLParam(r, "code"), req.HostID)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, s.manager.View(lobby))
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	n, err := s.manager.CountLobbies(r.Context())
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendSuccess(w, &StatsResponse{
		Lobbies:    n,
		Vocabulary: s.manager.Vocabulary(),
	})
}

// inviteLink builds the join URL as seen by the requesting client
func inviteLink(r *http.Request, code string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/join/" + code
}

// decode reads a JSON body. An empty body decodes as the zero value.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body")
		return false
	}
	return true
}

func (s *Server) require(w http.ResponseWriter, value, field string) bool {
	if strings.TrimSpace(value) == "" {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", field+" is required")
		return false
	}
	return true
}

// sendDomainError maps an engine error to a status and error code
func (s *Server) sendDomainError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.sendError(w, status, code, err.Error())
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrLobbyNotFound):
		return http.StatusNotFound, "LOBBY_NOT_FOUND"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "NOT_HOST"
	case errors.Is(err, domain.ErrInvalidPhase):
		return http.StatusConflict, "INVALID_PHASE"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_FAILED"
	case errors.Is(err, domain.ErrPlayerCountMismatch):
		return http.StatusBadRequest, "PLAYER_COUNT_MISMATCH"
	case errors.Is(err, domain.ErrCatalogExhausted):
		return http.StatusConflict, "CATALOG_EXHAUSTED"
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict, "LOBBY_BUSY"
	case errors.Is(err, domain.ErrStorage):
		return http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data any) {
	s.send(w, http.StatusOK, &Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	s.send(w, status, &Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}

func (s *Server) send(w http.ResponseWriter, status int, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
