package respond

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
)

func decodeProblem(t *testing.T, resp *httptest.ResponseRecorder) huma.ErrorModel {
	t.Helper()
	if ct := resp.Header().Get("Content-Type"); ct != ProblemContentType {
		t.Fatalf("expected %s, got %q", ProblemContentType, ct)
	}
	var problem huma.ErrorModel
	if err := json.Unmarshal(resp.Body.Bytes(), &problem); err != nil {
		t.Fatalf("failed to unmarshal problem: %v", err)
	}
	return problem
}

func TestNotFoundHandlerReturnsProblemDetails(t *testing.T) {
	router := chi.NewRouter()
	router.NotFound(NotFoundHandler())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	problem := decodeProblem(t, resp)
	if problem.Status != http.StatusNotFound || problem.Title != "Not Found" {
		t.Fatalf("unexpected problem: %+v", problem)
	}
	if problem.Detail != "resource not found" {
		t.Fatalf("unexpected detail: %s", problem.Detail)
	}
	if problem.Instance != "/missing" {
		t.Fatalf("unexpected instance: %s", problem.Instance)
	}
}

func TestMethodNotAllowedHandlerReturnsProblemDetails(t *testing.T) {
	router := chi.NewRouter()
	router.MethodNotAllowed(MethodNotAllowedHandler())
	router.Get("/greeting", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, httptest.NewRequest(method, "/greeting", nil))

			if resp.Code != http.StatusMethodNotAllowed {
				t.Fatalf("expected 405, got %d", resp.Code)
			}
			if allow := resp.Header().Get("Allow"); allow != http.MethodGet {
				t.Fatalf("expected Allow: GET, got %q", allow)
			}
			problem := decodeProblem(t, resp)
			if problem.Title != "Method Not Allowed" {
				t.Fatalf("unexpected title: %s", problem.Title)
			}
			if !strings.Contains(problem.Detail, method) {
				t.Fatalf("expected detail to mention %s, got %s", method, problem.Detail)
			}
		})
	}
}

func TestMethodNotAllowedWithMultipleMethods(t *testing.T) {
	router := chi.NewRouter()
	router.MethodNotAllowed(MethodNotAllowedHandler())
	noop := func(http.ResponseWriter, *http.Request) {}
	router.Get("/resource", noop)
	router.Head("/resource", noop)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/resource", nil))

	if allow := resp.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Fatalf("expected Allow: GET, HEAD, got %q", allow)
	}
}

func TestAllowedMethodsNilRouteContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/greeting", nil)
	if got := allowedMethods(req); got != nil {
		t.Fatalf("expected nil without route context, got %v", got)
	}
}

func TestTooManyRequestsHandler(t *testing.T) {
	resp := httptest.NewRecorder()
	TooManyRequestsHandler()(resp, httptest.NewRequest(http.MethodGet, "/greeting", nil))

	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	problem := decodeProblem(t, resp)
	if problem.Detail != "rate limit exceeded" {
		t.Fatalf("unexpected detail: %s", problem.Detail)
	}
}

func TestRecovererReturnsProblemDetails(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"string panic", "boom"},
		{"error panic", errors.New("boom")},
		{"int panic", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := chi.NewRouter()
			router.Use(Recoverer())
			api := humachi.New(router, huma.DefaultConfig("Test", "test"))
			huma.Get(api, "/panic", func(ctx context.Context, _ *struct{}) (*struct{}, error) {
				panic(tt.value)
			})

			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/panic", nil))

			if resp.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", resp.Code)
			}
			problem := decodeProblem(t, resp)
			if problem.Title != "Internal Server Error" {
				t.Fatalf("unexpected title: %s", problem.Title)
			}
			if problem.Detail != "internal server error" {
				t.Fatalf("unexpected detail: %s", problem.Detail)
			}
		})
	}
}

func TestRecovererRePanicsOnErrAbortHandler(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Recoverer())
	router.Get("/abort", func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})

	defer func() {
		rec := recover()
		err, ok := rec.(error)
		if !ok || !errors.Is(err, http.ErrAbortHandler) {
			t.Fatalf("expected http.ErrAbortHandler to be re-panicked, got %v", rec)
		}
	}()

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/abort", nil))

	t.Fatal("expected panic to propagate, but handler returned normally")
}

func TestRecovererSkipsWriteWhenHeaderAlreadyWritten(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Recoverer())
	router.Get("/partial", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("partial response"))
		panic("panic after write")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/partial", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected original 200 status to be preserved, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != "partial response" {
		t.Fatalf("expected original body to be preserved, got %q", body)
	}
}

func TestResponseWriterTracksHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec}
	if rw.wroteHeader {
		t.Fatal("expected wroteHeader to be false initially")
	}
	rw.WriteHeader(http.StatusCreated)
	if !rw.wroteHeader || rec.Code != http.StatusCreated {
		t.Fatalf("expected header written with 201, got %v %d", rw.wroteHeader, rec.Code)
	}

	rec2 := httptest.NewRecorder()
	rw2 := &responseWriter{ResponseWriter: rec2}
	if n, err := rw2.Write([]byte("hello")); err != nil || n != 5 {
		t.Fatalf("unexpected write result: %d %v", n, err)
	}
	if !rw2.wroteHeader {
		t.Fatal("expected wroteHeader to be true after Write")
	}
	if rw2.Unwrap() != rec2 {
		t.Fatal("expected Unwrap to return underlying ResponseWriter")
	}
}

func TestWriteProblemDoesNotEscapeHTML(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteProblem(resp, httptest.NewRequest(http.MethodGet, "/a&b", nil), http.StatusBadRequest, "<bad> & worse")

	if body := resp.Body.String(); !strings.Contains(body, "<bad> & worse") {
		t.Fatalf("expected unescaped detail, got %s", body)
	}
}
