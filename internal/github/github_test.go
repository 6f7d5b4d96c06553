package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

const oneItem = `{"total_count":1,"incomplete_results":false,"items":[{
	"id":1,"name":"x","full_name":"o/x","html_url":"u","description":null,
	"language":"Python","stargazers_count":5,"forks_count":1,"watchers_count":5,
	"open_issues_count":0,"created_at":"2020-01-01T00:00:00Z",
	"updated_at":"2021-01-01T00:00:00Z","topics":["ai"]}]}`

type recordingObserver struct {
	calls     int
	remaining int
	reset     time.Time
}

func (r *recordingObserver) Observe(remaining int, reset time.Time) {
	r.calls++
	r.remaining = remaining
	r.reset = reset
}

func TestSearchRepositories_Request(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(oneItem))
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL+"/"), WithHTTPClient(srv.Client()))
	items, err := c.SearchRepositories(context.Background(), SearchParams{
		Query: "topic:ai stars:>10", Sort: "forks", Order: "desc", PerPage: 30,
	})
	if err != nil {
		t.Fatalf("SearchRepositories: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if *items[0].FullName != "o/x" || items[0].Description != nil {
		t.Errorf("unexpected item %+v", items[0])
	}

	if got.URL.Path != "/search/repositories" {
		t.Errorf("path = %s", got.URL.Path)
	}
	q := got.URL.Query()
	if q.Get("q") != "topic:ai stars:>10" || q.Get("sort") != "forks" || q.Get("order") != "desc" || q.Get("per_page") != "30" {
		t.Errorf("query = %v", q)
	}
	if h := got.Header.Get("Authorization"); h != "Bearer secret" {
		t.Errorf("Authorization = %q", h)
	}
	if h := got.Header.Get("Accept"); h != "application/vnd.github.v3+json" {
		t.Errorf("Accept = %q", h)
	}
}

func TestSearchRepositories_Unauthenticated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected Authorization header %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	items, err := NewClient("", WithBaseURL(srv.URL)).SearchRepositories(context.Background(), SearchParams{Query: "q"})
	if err != nil {
		t.Fatalf("SearchRepositories: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}

func TestSearchRepositories_PerPageClamped(t *testing.T) {
	for _, in := range []int{0, -1, 500} {
		var perPage string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			perPage = r.URL.Query().Get("per_page")
			_, _ = w.Write([]byte(`{"items":[]}`))
		}))
		_, err := NewClient("", WithBaseURL(srv.URL)).SearchRepositories(context.Background(), SearchParams{Query: "q", PerPage: in})
		srv.Close()
		if err != nil {
			t.Fatalf("SearchRepositories: %v", err)
		}
		if perPage != "100" {
			t.Errorf("PerPage %d sent per_page=%s, want 100", in, perPage)
		}
	}
}

func TestSearchRepositories_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Validation Failed"}`))
	}))
	defer srv.Close()

	_, err := NewClient("", WithBaseURL(srv.URL)).SearchRepositories(context.Background(), SearchParams{Query: "q"})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Status != http.StatusUnprocessableEntity || se.RateLimited {
		t.Errorf("unexpected error %+v", se)
	}
}

func TestSearchRepositories_RateLimited(t *testing.T) {
	reset := time.Now().Add(time.Minute).Unix()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	_, err := NewClient("", WithBaseURL(srv.URL), WithRateObserver(obs)).
		SearchRepositories(context.Background(), SearchParams{Query: "q"})

	var se *StatusError
	if !errors.As(err, &se) || !se.RateLimited {
		t.Fatalf("expected rate-limited *StatusError, got %v", err)
	}
	if obs.calls != 1 || obs.remaining != 0 || obs.reset.Unix() != reset {
		t.Errorf("observer = %+v", obs)
	}
}

func TestSearchRepositories_DecodeErrors(t *testing.T) {
	for name, body := range map[string]string{
		"malformed":     `{"items":[`,
		"missing items": `{"total_count":0}`,
		"wrong shape":   `{"items":{"id":1}}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := NewClient("", WithBaseURL(srv.URL)).SearchRepositories(context.Background(), SearchParams{Query: "q"})
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DecodeError, got %v", err)
			}
		})
	}
}

func TestSearchRepositories_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient("", WithBaseURL(url), WithTimeout(time.Second)).
		SearchRepositories(context.Background(), SearchParams{Query: "q"})
	if err == nil {
		t.Fatal("expected transport error")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Errorf("transport failure classified as status error: %v", err)
	}
}

func TestSearchRepositories_SecondaryRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "4000")
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient("", WithBaseURL(srv.URL)).SearchRepositories(context.Background(), SearchParams{Query: "q"})
	var se *StatusError
	if !errors.As(err, &se) || !se.RateLimited {
		t.Fatalf("expected rate-limited *StatusError, got %v", err)
	}
	if !strings.Contains(se.Error(), "DASHBOARD_TOKEN") {
		t.Errorf("message %q lacks token hint", se.Error())
	}
}

func TestSearchRepositories_PlainForbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "4000")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient("", WithBaseURL(srv.URL)).SearchRepositories(context.Background(), SearchParams{Query: "q"})
	var se *StatusError
	if !errors.As(err, &se) || se.RateLimited {
		t.Fatalf("expected non-rate-limited *StatusError, got %v", err)
	}
}
