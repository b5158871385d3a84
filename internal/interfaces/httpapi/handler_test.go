package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/cup-tracker/internal/domain/scorer"
	"github.com/riskibarqy/cup-tracker/internal/domain/tournament"
	documentrepo "github.com/riskibarqy/cup-tracker/internal/infrastructure/repository/document"
	"github.com/riskibarqy/cup-tracker/internal/infrastructure/store/memory"
	"github.com/riskibarqy/cup-tracker/internal/platform/logging"
	"github.com/riskibarqy/cup-tracker/internal/usecase"
)

type envelope[T any] struct {
	APIVersion string `json:"apiVersion"`
	Data       T      `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	layout := tournament.DefaultLayout()
	store := memory.NewStore()
	matches := documentrepo.NewMatchRepository(store, logger)
	scorers := documentrepo.NewScorerRepository(store, logger)

	bootstrap := usecase.NewBootstrapService(matches, scorers, documentrepo.NewResetter(store), logger)
	if _, err := bootstrap.EnsureSeeded(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	handler := NewHandler(
		usecase.NewMatchService(matches, layout, logger),
		usecase.NewScorerService(scorers, layout, usecase.ScorerServiceConfig{
			MatchMode:       scorer.MatchCaseInsensitive,
			LeaderboardSize: scorer.DefaultLeaderboardSize,
		}, logger),
		usecase.NewBoardService(matches, scorers, layout, scorer.DefaultLeaderboardSize),
		bootstrap,
		logger,
	)
	return NewRouter(handler, nil, logger, true, []string{"*"})
}

func doRequest[T any](t *testing.T, router http.Handler, method, path, body string) (int, envelope[T]) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out envelope[T]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal %s %s: %v (%s)", method, path, err, rec.Body.String())
	}
	return rec.Code, out
}

func TestHandler_SubmitScoreUpdatesBoard(t *testing.T) {
	router := newTestRouter(t)

	code, resp := doRequest[matchUpdateDTO](t, router, http.MethodPut, "/v1/admin/matches/1/score", `{"homeScore":3,"awayScore":"1","completed":true}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !resp.Data.Applied || resp.Data.Match == nil || *resp.Data.Match.HomeScore != 3 {
		t.Fatalf("unexpected update %+v", resp.Data)
	}

	code, board := doRequest[boardDTO](t, router, http.MethodGet, "/v1/board", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if board.Data.CompletedMatches != 1 || board.Data.TotalMatches != 12 {
		t.Fatalf("unexpected counts %+v", board.Data)
	}
	leader := board.Data.Groups[0].Rows[0]
	if leader.Team != "Real Madrid" || leader.Points != 3 || leader.Position != 1 {
		t.Fatalf("unexpected leader %+v", leader)
	}
	if board.Data.GeneratedAt == "" {
		t.Fatalf("expected generatedAt")
	}
}

func TestHandler_SubmitScoreValidation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{name: "half score", path: "/v1/admin/matches/1/score", body: `{"homeScore":2,"awayScore":null,"completed":true}`, want: http.StatusBadRequest},
		{name: "negative", path: "/v1/admin/matches/1/score", body: `{"homeScore":-1,"awayScore":0}`, want: http.StatusBadRequest},
		{name: "unknown field", path: "/v1/admin/matches/1/score", body: `{"home":1}`, want: http.StatusBadRequest},
		{name: "bad json", path: "/v1/admin/matches/1/score", body: `{`, want: http.StatusBadRequest},
		{name: "bad id", path: "/v1/admin/matches/x/score", body: `{}`, want: http.StatusBadRequest},
		{name: "unfixed knockout", path: "/v1/admin/matches/101/score", body: `{"homeScore":1,"awayScore":0,"completed":true}`, want: http.StatusBadRequest},
	}

	for _, tc := range tests {
		code, resp := doRequest[matchUpdateDTO](t, router, http.MethodPut, tc.path, tc.body)
		if code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, code)
		}
		if resp.Error == nil || resp.Error.Status != "INVALID_ARGUMENT" {
			t.Fatalf("%s: expected INVALID_ARGUMENT, got %+v", tc.name, resp.Error)
		}
	}
}

func TestHandler_UnknownMatchIsNoOp(t *testing.T) {
	router := newTestRouter(t)

	code, resp := doRequest[matchUpdateDTO](t, router, http.MethodPut, "/v1/admin/matches/999/score", `{"homeScore":1,"awayScore":0,"completed":true}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp.Data.Applied || resp.Data.Match != nil {
		t.Fatalf("expected no-op, got %+v", resp.Data)
	}
}

func TestHandler_KnockoutFlow(t *testing.T) {
	router := newTestRouter(t)

	code, fixed := doRequest[matchUpdateDTO](t, router, http.MethodPost, "/v1/admin/matches/103/fix", `{"homeTeam":"Real Madrid","awayTeam":"Barcelona"}`)
	if code != http.StatusOK || !fixed.Data.Match.Fixed {
		t.Fatalf("fix: %d %+v", code, fixed.Data)
	}

	code, _ = doRequest[matchUpdateDTO](t, router, http.MethodPost, "/v1/admin/matches/103/fix", `{"homeTeam":"PSG","awayTeam":"PSG"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for same team twice, got %d", code)
	}

	code, result := doRequest[matchUpdateDTO](t, router, http.MethodPut, "/v1/admin/matches/103/score", `{"homeScore":"2","awayScore":"1","completed":true}`)
	if code != http.StatusOK || !result.Data.Match.Completed {
		t.Fatalf("score final: %d %+v", code, result.Data)
	}

	code, reopened := doRequest[matchUpdateDTO](t, router, http.MethodPost, "/v1/admin/matches/103/reopen", "")
	if code != http.StatusOK || reopened.Data.Match.Completed || !reopened.Data.Match.Fixed {
		t.Fatalf("reopen: %d %+v", code, reopened.Data)
	}
	if *reopened.Data.Match.HomeScore != 2 {
		t.Fatalf("reopen must keep the score: %+v", reopened.Data.Match)
	}

	code, edited := doRequest[matchUpdateDTO](t, router, http.MethodPut, "/v1/admin/matches/103/knockout",
		`{"homeTeam":"Real Madrid","awayTeam":"Chelsea","homeScore":1,"awayScore":1,"completed":true}`)
	if code != http.StatusOK || edited.Data.Match.AwayTeam != "Chelsea" || !edited.Data.Match.Completed {
		t.Fatalf("knockout edit: %d %+v", code, edited.Data)
	}
}

func TestHandler_ScorerLifecycle(t *testing.T) {
	router := newTestRouter(t)

	code, created := doRequest[scorerUpdateDTO](t, router, http.MethodPost, "/v1/admin/scorers", `{"name":"Mbappe","team":"PSG","goals":4}`)
	if code != http.StatusCreated || !created.Data.Created {
		t.Fatalf("add: %d %+v", code, created.Data)
	}

	code, merged := doRequest[scorerUpdateDTO](t, router, http.MethodPost, "/v1/admin/scorers", `{"name":"mbappe","team":"PSG","goals":6}`)
	if code != http.StatusOK || merged.Data.Created || merged.Data.Scorer.Goals != 6 || merged.Data.Scorer.Index != 0 {
		t.Fatalf("merge: %d %+v", code, merged.Data)
	}

	code, _ = doRequest[scorerUpdateDTO](t, router, http.MethodPost, "/v1/admin/scorers", `{"name":"Nobody","team":"Unknown FC","goals":1}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown team, got %d", code)
	}
	code, _ = doRequest[scorerUpdateDTO](t, router, http.MethodPost, "/v1/admin/scorers", `{"name":"Kane","team":"PSG"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing goals, got %d", code)
	}

	code, top := doRequest[[]leaderboardEntryDTO](t, router, http.MethodGet, "/v1/scorers/top?limit=3", "")
	if code != http.StatusOK || len(top.Data) != 1 || top.Data[0].Rank != 1 || top.Data[0].Goals != 6 {
		t.Fatalf("top: %d %+v", code, top.Data)
	}

	code, _ = doRequest[scorerDTO](t, router, http.MethodDelete, "/v1/admin/scorers/7", "")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing index, got %d", code)
	}
	code, _ = doRequest[scorerDTO](t, router, http.MethodDelete, "/v1/admin/scorers/0", "")
	if code != http.StatusOK {
		t.Fatalf("delete: %d", code)
	}
}

func TestHandler_GroupStandings(t *testing.T) {
	router := newTestRouter(t)

	code, table := doRequest[groupTableDTO](t, router, http.MethodGet, "/v1/standings/B", "")
	if code != http.StatusOK || table.Data.Group != "B" || len(table.Data.Rows) != 3 {
		t.Fatalf("group B: %d %+v", code, table.Data)
	}

	code, missing := doRequest[groupTableDTO](t, router, http.MethodGet, "/v1/standings/Z", "")
	if code != http.StatusNotFound || missing.Error == nil {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestHandler_ResetRestoresSeed(t *testing.T) {
	router := newTestRouter(t)

	doRequest[matchUpdateDTO](t, router, http.MethodPut, "/v1/admin/matches/1/score", `{"homeScore":1,"awayScore":0,"completed":true}`)
	doRequest[scorerUpdateDTO](t, router, http.MethodPost, "/v1/admin/scorers", `{"name":"Pedri","team":"Barcelona","goals":1}`)

	code, _ := doRequest[map[string]string](t, router, http.MethodPost, "/v1/admin/reset", "")
	if code != http.StatusOK {
		t.Fatalf("reset: %d", code)
	}

	_, board := doRequest[boardDTO](t, router, http.MethodGet, "/v1/board", "")
	if board.Data.CompletedMatches != 0 || len(board.Data.TopScorers) != 0 {
		t.Fatalf("expected a clean board, got %+v", board.Data)
	}
}

func TestHandler_OpenAPIServedWhenEnabled(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/v1/board") {
		t.Fatalf("unexpected openapi response %d", rec.Code)
	}
}
