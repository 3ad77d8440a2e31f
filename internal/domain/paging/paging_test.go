package paging_test

import (
	"testing"

	"github.com/okian/leaderview/internal/domain/paging"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompute(t *testing.T) {
	Convey("Given seven loaded rows", t, func() {
		rows := []int{1, 2, 3, 4, 5, 6, 7}

		Convey("When looking at page 1", func() {
			w := paging.Compute(len(rows), 1)

			Convey("Then rows 1-5 are visible and Next is enabled", func() {
				So(w.TotalPages, ShouldEqual, 2)
				So(paging.Slice(rows, w), ShouldResemble, []int{1, 2, 3, 4, 5})
				So(w.HasPrev, ShouldBeFalse)
				So(w.HasNext, ShouldBeTrue)
			})
		})

		Convey("When looking at page 2", func() {
			w := paging.Compute(len(rows), paging.Next(1, 2))

			Convey("Then rows 6-7 are visible and Next is disabled", func() {
				So(w.Page, ShouldEqual, 2)
				So(paging.Slice(rows, w), ShouldResemble, []int{6, 7})
				So(w.HasPrev, ShouldBeTrue)
				So(w.HasNext, ShouldBeFalse)
			})
		})

		Convey("When asking for a page past the end", func() {
			w := paging.Compute(len(rows), 9)

			Convey("Then the page is clamped to the last one", func() {
				So(w.Page, ShouldEqual, 2)
				So(w.Start, ShouldEqual, 5)
				So(w.End, ShouldEqual, 7)
			})
		})
	})

	Convey("Given no rows", t, func() {
		w := paging.Compute(0, 3)

		Convey("Then there are no pages and nothing to show", func() {
			So(w.TotalPages, ShouldEqual, 0)
			So(w.Page, ShouldEqual, 1)
			So(w.HasNext, ShouldBeFalse)
			So(w.HasPrev, ShouldBeFalse)
			So(paging.Slice([]string{}, w), ShouldBeEmpty)
		})
	})
}

func TestTotalPagesAndBounds(t *testing.T) {
	for rows := 0; rows <= 53; rows++ {
		want := (rows + 4) / 5
		if got := paging.TotalPages(rows); got != want {
			t.Fatalf("rows=%d: total pages %d, want %d", rows, got, want)
		}

		// Walking forwards never leaves [1, total].
		page := 1
		for i := 0; i < want+3; i++ {
			page = paging.Next(page, want)
			if page < 1 || (want > 0 && page > want) {
				t.Fatalf("rows=%d: next produced page %d", rows, page)
			}
		}
		if want > 0 && page != want {
			t.Fatalf("rows=%d: expected to stop at %d, got %d", rows, want, page)
		}

		// Walking backwards never goes below 1.
		for i := 0; i < want+3; i++ {
			page = paging.Prev(page)
			if page < 1 {
				t.Fatalf("rows=%d: prev produced page %d", rows, page)
			}
		}
		if page != 1 {
			t.Fatalf("rows=%d: expected to stop at 1, got %d", rows, page)
		}

		// Every row is visible on exactly one page.
		seen := 0
		for p := 1; p <= want; p++ {
			w := paging.Compute(rows, p)
			seen += w.End - w.Start
		}
		if seen != rows {
			t.Fatalf("rows=%d: pages covered %d rows", rows, seen)
		}
	}
}
