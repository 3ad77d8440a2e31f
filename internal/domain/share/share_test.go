package share_test

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/okian/leaderview/internal/domain/share"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResultsURL(t *testing.T) {
	Convey("Given a frontend base address", t, func() {
		Convey("When a transaction id is present", func() {
			link, ok := share.ResultsURL("http://localhost:3000", "0xabc")

			Convey("Then the link points at the results page", func() {
				So(ok, ShouldBeTrue)
				So(link, ShouldEqual, "http://localhost:3000/results/0xabc")
			})
		})

		Convey("When the base has a trailing slash", func() {
			link, _ := share.ResultsURL("https://board.example.com/", "tx1")

			Convey("Then no double slash is produced", func() {
				So(link, ShouldEqual, "https://board.example.com/results/tx1")
			})
		})

		Convey("When the transaction id is empty", func() {
			link, ok := share.ResultsURL("http://localhost:3000", "")

			Convey("Then there is no link", func() {
				So(ok, ShouldBeFalse)
				So(link, ShouldBeEmpty)
			})
		})

		Convey("When the transaction id is only whitespace", func() {
			link, ok := share.ResultsURL("http://localhost:3000", "  \t")

			Convey("Then there is no link either", func() {
				So(ok, ShouldBeFalse)
				So(link, ShouldBeEmpty)
			})
		})

		Convey("When the transaction id is padded or has reserved characters", func() {
			padded, _ := share.ResultsURL("http://localhost:3000", " tx1 ")
			slashed, _ := share.ResultsURL("http://localhost:3000", "a/b c")

			Convey("Then it is trimmed and kept as one escaped segment", func() {
				So(padded, ShouldEqual, "http://localhost:3000/results/tx1")
				So(slashed, ShouldEqual, "http://localhost:3000/results/a%2Fb%20c")
			})
		})
	})
}

func TestDialog(t *testing.T) {
	Convey("Given a closed share dialog", t, func() {
		var d share.Dialog

		Convey("When opened without a transaction id", func() {
			next, ok := d.OpenFor("http://localhost:3000", "")

			Convey("Then it stays closed with no target", func() {
				So(ok, ShouldBeFalse)
				So(next.Open, ShouldBeFalse)
				So(next.Target, ShouldBeEmpty)
			})
		})

		Convey("When opened with a transaction id and then closed", func() {
			opened, ok := d.OpenFor("http://localhost:3000", "tx-9")
			closed := opened.Close()

			Convey("Then the target is set while open and retained after close", func() {
				So(ok, ShouldBeTrue)
				So(opened.Open, ShouldBeTrue)
				So(opened.Target, ShouldEqual, "http://localhost:3000/results/tx-9")
				So(closed.Open, ShouldBeFalse)
				So(closed.Target, ShouldEqual, opened.Target)
			})

			Convey("And a failed reopen keeps the previous target", func() {
				again, ok := closed.OpenFor("http://localhost:3000", " ")
				So(ok, ShouldBeFalse)
				So(again.Open, ShouldBeFalse)
				So(again.Target, ShouldEqual, opened.Target)
			})
		})
	})
}

func TestEncoder(t *testing.T) {
	Convey("Given a QR encoder", t, func() {
		enc, err := share.NewEncoder(share.WithPNGSize(128), share.WithCacheSize(4))
		So(err, ShouldBeNil)

		Convey("When rendering a PNG", func() {
			b, err := enc.PNG("http://localhost:3000/results/tx-1")

			Convey("Then it should decode as an image of the requested size", func() {
				So(err, ShouldBeNil)
				img, err := png.Decode(bytes.NewReader(b))
				So(err, ShouldBeNil)
				So(img.Bounds().Dx(), ShouldEqual, 128)
			})

			Convey("And a second render returns the cached bytes", func() {
				again, err := enc.PNG("http://localhost:3000/results/tx-1")
				So(err, ShouldBeNil)
				So(bytes.Equal(again, b), ShouldBeTrue)
			})
		})

		Convey("When rendering text", func() {
			s, err := enc.Text("http://localhost:3000/results/tx-1")

			Convey("Then it should produce a multi-line block", func() {
				So(err, ShouldBeNil)
				So(s, ShouldContainSubstring, "\n")
			})
		})

		Convey("When there is no target", func() {
			_, pngErr := enc.PNG("")
			_, textErr := enc.Text("")

			Convey("Then both renders report ErrNoTarget", func() {
				So(errors.Is(pngErr, share.ErrNoTarget), ShouldBeTrue)
				So(errors.Is(textErr, share.ErrNoTarget), ShouldBeTrue)
			})
		})
	})
}
