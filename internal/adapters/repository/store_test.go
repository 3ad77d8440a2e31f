package repository_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/leaderview/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeSession struct {
	id     string
	closes atomic.Int32
}

func (f *fakeSession) ID() string   { return f.id }
func (f *fakeSession) Close()       { f.closes.Add(1) }
func (f *fakeSession) Closed() bool { return f.closes.Load() > 0 }

func TestLRUStore(t *testing.T) {
	Convey("Given an empty session store", t, func() {
		ctx := context.Background()
		store := repository.NewLRUStore(repository.WithCapacity(2), repository.WithTTL(time.Minute))

		Convey("When a session is stored", func() {
			a := &fakeSession{id: "a"}
			So(store.Put(ctx, a), ShouldBeNil)

			Convey("Then it can be fetched by id", func() {
				got, err := store.Get(ctx, "a")
				So(err, ShouldBeNil)
				So(got, ShouldEqual, a)
				So(store.Count(ctx), ShouldEqual, 1)
			})

			Convey("And removing it closes it", func() {
				So(store.Remove(ctx, "a"), ShouldBeTrue)
				So(a.Closed(), ShouldBeTrue)
				_, err := store.Get(ctx, "a")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When more sessions than the capacity are stored", func() {
			a, b, c := &fakeSession{id: "a"}, &fakeSession{id: "b"}, &fakeSession{id: "c"}
			_ = store.Put(ctx, a)
			_ = store.Put(ctx, b)
			_, _ = store.Get(ctx, "a")
			_ = store.Put(ctx, c)

			Convey("Then the least recently used one is evicted and closed", func() {
				So(store.Count(ctx), ShouldEqual, 2)
				So(b.Closed(), ShouldBeTrue)
				So(a.Closed(), ShouldBeFalse)
				_, err := store.Get(ctx, "b")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When a session is replaced under the same id", func() {
			old, fresh := &fakeSession{id: "a"}, &fakeSession{id: "a"}
			_ = store.Put(ctx, old)
			_ = store.Put(ctx, fresh)

			Convey("Then the old one is closed", func() {
				So(old.Closed(), ShouldBeTrue)
				got, err := store.Get(ctx, "a")
				So(err, ShouldBeNil)
				So(got, ShouldEqual, fresh)
			})
		})

		Convey("When ids are invalid", func() {
			So(errors.Is(store.Put(ctx, &fakeSession{}), repository.ErrInvalidID), ShouldBeTrue)
			_, err := store.Get(ctx, "")
			So(errors.Is(err, repository.ErrInvalidID), ShouldBeTrue)
		})

		Convey("When the store is purged", func() {
			a, b := &fakeSession{id: "a"}, &fakeSession{id: "b"}
			_ = store.Put(ctx, a)
			_ = store.Put(ctx, b)
			So(store.All(ctx), ShouldHaveLength, 2)
			store.Purge(ctx)

			Convey("Then every session is closed", func() {
				So(a.Closed(), ShouldBeTrue)
				So(b.Closed(), ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 0)
			})
		})
	})
}

func TestLRUStoreExpiry(t *testing.T) {
	Convey("Given a store with a short ttl", t, func() {
		ctx := context.Background()
		store := repository.NewLRUStore(repository.WithTTL(50 * time.Millisecond))
		a := &fakeSession{id: "a"}
		_ = store.Put(ctx, a)

		Convey("When the session is not used", func() {
			time.Sleep(120 * time.Millisecond)

			Convey("Then it is gone", func() {
				_, err := store.Get(ctx, "a")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}
