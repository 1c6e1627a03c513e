package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"thalassist/internal/delivery/http/middleware"
	"thalassist/internal/delivery/http/response"
	"thalassist/internal/delivery/http/validator"
	"thalassist/internal/domain/repository"
	"thalassist/internal/infra/persistence/memory"
	"thalassist/internal/usecase"
	"thalassist/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// envelope mirrors response.Response with the payload left raw.
type envelope struct {
	Success bool                `json:"success"`
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(newDiscardLogger()).HandleHTTPError

	return e
}

// call runs h against a recorded request. body may be a string (sent verbatim)
// or any value (JSON-encoded). params are name/value pairs for path parameters.
func call(t *testing.T, e *echo.Echo, h echo.HandlerFunc, method, target string, body any, params ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.Zero(t, len(params)%2, "params must be name/value pairs")
	for i := 0; i < len(params); i += 2 {
		c.SetParamNames(append(c.ParamNames(), params[i])...)
		c.SetParamValues(append(c.ParamValues(), params[i+1])...)
	}

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) (envelope, T) {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())

	var data T
	if len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, &data))
	}

	return env, data
}

func seededDonorRepo(t *testing.T) repository.DonorRepository {
	t.Helper()

	repo := memory.NewDonorRepository()
	_, err := memory.SeedSampleDonors(context.Background(), repo, time.Now())
	require.NoError(t, err)

	return repo
}

func newDonorUsecase(repo repository.DonorRepository) usecase.DonorUsecase {
	return impl.NewDonorService(impl.DonorServiceParams{DonorRepo: repo, Logger: newDiscardLogger()})
}

func newMatchUsecase(repo repository.DonorRepository) usecase.MatchUsecase {
	return impl.NewMatchService(impl.MatchServiceParams{DonorRepo: repo, Logger: newDiscardLogger()})
}
