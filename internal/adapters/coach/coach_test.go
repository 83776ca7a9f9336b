package coach_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vapeless/vapeless/internal/adapters/coach"
	"github.com/vapeless/vapeless/internal/domain/model"
)

func generationStub(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
			},
		})
	}
}

func TestClientWithoutKey(t *testing.T) {
	ctx := context.Background()

	Convey("Given a client with no API key", t, func() {
		c := coach.New("")
		plan := model.PlanConfig{DailyBudgetStart: 400}

		Convey("When asking for an insight", func() {
			text, err := c.DailyInsight(ctx, 12, plan)

			Convey("Then the fallback is served without error", func() {
				So(err, ShouldBeNil)
				So(text, ShouldNotBeEmpty)
			})
		})

		Convey("When asking for a chat reply", func() {
			text, err := c.Reply(ctx, "I have a craving", plan, 5)

			So(err, ShouldBeNil)
			So(text, ShouldNotBeEmpty)
		})
	})
}

func TestClientAgainstServer(t *testing.T) {
	ctx := context.Background()
	plan := model.PlanConfig{DailyBudgetStart: 400, UnitCost: 6, UnitsPerPackage: 600}

	Convey("Given a stub generation endpoint", t, func() {
		var captured struct {
			path   string
			apiKey string
			body   map[string]any
		}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured.path = r.URL.Path
			captured.apiKey = r.Header.Get("x-goog-api-key")
			_ = json.NewDecoder(r.Body).Decode(&captured.body)
			generationStub("  You are doing great.  ")(w, r)
		}))
		defer srv.Close()

		c := coach.New("test-key", coach.WithBaseURL(srv.URL), coach.WithModel("test-model"))

		Convey("When asking for an insight", func() {
			text, err := c.DailyInsight(ctx, 12, plan)

			Convey("Then the generated text is returned trimmed", func() {
				So(err, ShouldBeNil)
				So(text, ShouldEqual, "You are doing great.")
			})

			Convey("Then the request targeted the configured model with the key", func() {
				So(captured.path, ShouldEqual, "/v1beta/models/test-model:generateContent")
				So(captured.apiKey, ShouldEqual, "test-key")
				So(captured.body["contents"], ShouldNotBeNil)
				So(captured.body["systemInstruction"], ShouldNotBeNil)
			})
		})

		Convey("When asking for a chat reply", func() {
			text, err := c.Reply(ctx, "help", plan, 3)

			So(err, ShouldBeNil)
			So(text, ShouldEqual, "You are doing great.")
		})
	})

	Convey("Given an endpoint that fails", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := coach.New("test-key", coach.WithBaseURL(srv.URL))

		Convey("When asking for an insight", func() {
			_, err := c.DailyInsight(ctx, 12, plan)

			Convey("Then the error carries the generation kind", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, coach.ErrGenerate), ShouldBeTrue)
			})
		})
	})

	Convey("Given an endpoint that returns no candidates", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}))
		defer srv.Close()

		c := coach.New("test-key", coach.WithBaseURL(srv.URL))

		Convey("When asking for a reply", func() {
			_, err := c.Reply(ctx, "help", plan, 0)

			So(errors.Is(err, coach.ErrEmptyResponse), ShouldBeTrue)
		})
	})
}
