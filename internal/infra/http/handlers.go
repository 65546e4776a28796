package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Ramcharan1706/BlockEstate/internal/domain"
	"github.com/Ramcharan1706/BlockEstate/internal/usecase"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type startTransferResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

type runResponse struct {
	RunID         string            `json:"run_id"`
	Status        string            `json:"status"`
	ErrorCode     string            `json:"error_code,omitempty"`
	DocumentCount int               `json:"document_count"`
	StartedAt     string            `json:"started_at"`
	FinishedAt    string            `json:"finished_at,omitempty"`
	Outcomes      []outcomeResponse `json:"outcomes,omitempty"`
}

type outcomeResponse struct {
	DocumentHash  string `json:"document_hash"`
	Status        string `json:"status"`
	ErrorCode     string `json:"error_code,omitempty"`
	AssetTxID     string `json:"asset_tx_id,omitempty"`
	AssetRound    uint64 `json:"asset_round,omitempty"`
	TransferTxID  string `json:"transfer_tx_id,omitempty"`
	TransferRound uint64 `json:"transfer_round,omitempty"`
}

func (s *Server) handleStartTransfer(c *gin.Context) {
	if s.workflow == nil {
		writeErrorCode(c, http.StatusServiceUnavailable, "UNAVAILABLE", "transfer workflow not configured")
		return
	}
	if !s.enforceRateLimit(c, "transfers:start") {
		return
	}

	runID := usecase.NewRunID()
	go func() {
		if _, err := s.workflow.Execute(context.Background(), runID); err != nil {
			log.Printf("transfer run %s failed: %v", runID, err)
		}
	}()
	c.JSON(http.StatusAccepted, startTransferResponse{
		RunID:  runID,
		Status: domain.RunStatusRunning,
	})
}

func (s *Server) handleListRuns(c *gin.Context) {
	if s.runs == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeErrorCode(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}
	runs, err := s.runs.ListRuns(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, buildRunResponse(run))
	}
	c.JSON(http.StatusOK, gin.H{"runs": out})
}

func (s *Server) handleGetRun(c *gin.Context) {
	if s.runs == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	run, err := s.runs.GetRun(c.Request.Context(), c.Param("run_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildRunResponse(run))
}

func (s *Server) handleNoRoute(c *gin.Context) {
	writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "route not found")
}

func buildRunResponse(run domain.TransferRun) runResponse {
	resp := runResponse{
		RunID:         run.ID,
		Status:        run.Status,
		ErrorCode:     run.ErrorCode,
		DocumentCount: run.DocumentCount,
		StartedAt:     run.StartedAt.UTC().Format(time.RFC3339),
	}
	if run.FinishedAt != nil {
		resp.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339)
	}
	for _, outcome := range run.Outcomes {
		resp.Outcomes = append(resp.Outcomes, outcomeResponse{
			DocumentHash:  outcome.DocumentHash,
			Status:        outcome.Status,
			ErrorCode:     outcome.ErrorCode,
			AssetTxID:     outcome.AssetTxID,
			AssetRound:    outcome.AssetRound,
			TransferTxID:  outcome.TransferTxID,
			TransferRound: outcome.TransferRound,
		})
	}
	return resp
}

func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrConfiguration):
		status, code = http.StatusInternalServerError, "CONFIGURATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	}
	writeErrorCode(c, status, code, err.Error())
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{
		Code:    code,
		Message: message,
	})
}
