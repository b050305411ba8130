package handlers

import (
	"encoding/json"
	"errors"

	"github.com/cluetrail/backend/pkg/models"
	"github.com/cluetrail/backend/pkg/redis"
	"github.com/cluetrail/backend/pkg/services"
	"github.com/valyala/fasthttp"
)

func respondWithJSON(ctx *fasthttp.RequestCtx, statusCode int, response interface{}) {
	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.SetStatusCode(statusCode)

	jsonData, err := json.Marshal(response)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(`{"success": false, "error": "failed to serialize response"}`)
		return
	}

	ctx.SetBody(jsonData)
}

func respondWithError(ctx *fasthttp.RequestCtx, statusCode int, message string) {
	respondWithJSON(ctx, statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

func respondWithSuccess(ctx *fasthttp.RequestCtx, data interface{}, message string) {
	respondWithJSON(ctx, fasthttp.StatusOK, models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondWithServiceError maps the service error taxonomy to HTTP statuses.
func respondWithServiceError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, services.ErrTeamNotFound):
		respondWithError(ctx, fasthttp.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrValidation):
		respondWithError(ctx, fasthttp.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrCommitFailed):
		// The write-back failed after the update was computed; the stored
		// state is unknown, so the client must re-fetch before retrying.
		respondWithError(ctx, fasthttp.StatusServiceUnavailable, err.Error())
	case errors.Is(err, redis.ErrUnavailable):
		respondWithError(ctx, fasthttp.StatusServiceUnavailable, "store unavailable")
	default:
		respondWithError(ctx, fasthttp.StatusInternalServerError, "internal error")
	}
}
