package devbackend

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/leaderview/internal/domain/milestone"
	"github.com/okian/leaderview/internal/domain/types"
	"github.com/okian/leaderview/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer(t *testing.T) {
	Convey("Given a dev backend", t, func() {
		cfg := DefaultConfig()
		cfg.Rows = 7
		cfg.ShareRatio = 1
		cfg.NonArray = []string{"m2"}
		srv, err := NewServer(cfg)
		So(err, ShouldBeNil)
		h := srv.Handler()

		Convey("When the milestone document is requested", func() {
			w := get(h, "/milestones.json")

			Convey("Then it parses into the configured options", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				doc, err := milestone.Parse(w.Body.Bytes())
				So(err, ShouldBeNil)
				opts := milestone.BuildOptions(doc)
				So(opts, ShouldHaveLength, 3)
				So(opts[0].ID, ShouldEqual, "m1")
				So(opts[1].ID, ShouldEqual, "m1_extended")
				So(opts[2].ID, ShouldEqual, "m2")
			})
		})

		Convey("When a leaderboard is requested", func() {
			w := get(h, "/leaderboard?milestone=m1")
			So(w.Code, ShouldEqual, http.StatusOK)
			var rows []types.Entry
			So(json.Unmarshal(w.Body.Bytes(), &rows), ShouldBeNil)

			Convey("Then it has the configured number of ranked rows", func() {
				So(rows, ShouldHaveLength, 7)
				for i := 1; i < len(rows); i++ {
					So(rows[i-1].Count, ShouldBeGreaterThanOrEqualTo, rows[i].Count)
				}
				for _, r := range rows {
					So(r.TxID, ShouldNotBeEmpty)
					So(r.Count, ShouldBeLessThanOrEqualTo, r.Total)
				}
			})

			Convey("And repeated requests return the same rows", func() {
				var again []types.Entry
				So(json.Unmarshal(get(h, "/leaderboard?milestone=m1").Body.Bytes(), &again), ShouldBeNil)
				So(again, ShouldResemble, rows)
			})
		})

		Convey("When a non-array milestone is requested", func() {
			w := get(h, "/leaderboard?milestone=m2")

			Convey("Then the body is a JSON object", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var obj map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &obj), ShouldBeNil)
			})
		})

		Convey("When the milestone is missing", func() {
			w := get(h, "/leaderboard")

			Convey("Then the request is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestNewServerValidation(t *testing.T) {
	cases := []Config{
		{Rows: -1},
		{ShareRatio: 1.5},
		{MaxLatency: -time.Second},
	}
	for _, cfg := range cases {
		if _, err := NewServer(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestGenerateRowsWithoutShares(t *testing.T) {
	rows := generateRows(10, 0)
	if len(rows) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.HasTx() {
			t.Fatalf("row %q should not carry a tx id", r.Name)
		}
	}
}
