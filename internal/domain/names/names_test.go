package names

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryIndex(t *testing.T) {
	Convey("Given an empty index", t, func() {
		ctx := context.Background()
		idx := NewInMemoryIndex()

		Convey("When claiming a fresh name", func() {
			taken := idx.Claim(ctx, "Amy")

			Convey("Then it is newly claimed", func() {
				So(taken, ShouldBeFalse)
				So(idx.Has(ctx, "Amy"), ShouldBeTrue)
				So(idx.Size(), ShouldEqual, int64(1))
			})

			Convey("And a second claim reports it taken", func() {
				So(idx.Claim(ctx, "Amy"), ShouldBeTrue)
				So(idx.Size(), ShouldEqual, int64(1))
			})

			Convey("And names are case sensitive by default", func() {
				So(idx.Claim(ctx, "amy"), ShouldBeFalse)
				So(idx.Size(), ShouldEqual, int64(2))
			})
		})

		Convey("When releasing a claimed name", func() {
			idx.Claim(ctx, "Bob")
			idx.Release(ctx, "Bob")

			Convey("Then it can be claimed again", func() {
				So(idx.Has(ctx, "Bob"), ShouldBeFalse)
				So(idx.Size(), ShouldEqual, int64(0))
				So(idx.Claim(ctx, "Bob"), ShouldBeFalse)
			})
		})

		Convey("When releasing an unknown name", func() {
			idx.Release(ctx, "ghost")

			Convey("Then the size is unchanged", func() {
				So(idx.Size(), ShouldEqual, int64(0))
			})
		})

		Convey("When resetting", func() {
			idx.Claim(ctx, "Zed")
			idx.Reset(ctx, []string{"John", "Jane", "Bob", "Alice"})

			Convey("Then only the given names are claimed", func() {
				So(idx.Size(), ShouldEqual, int64(4))
				So(idx.Has(ctx, "Zed"), ShouldBeFalse)
				So(idx.Has(ctx, "Alice"), ShouldBeTrue)
			})
		})
	})

	Convey("Given a case-insensitive index", t, func() {
		ctx := context.Background()
		idx := NewInMemoryIndex(WithCaseInsensitive())
		idx.Claim(ctx, "Amy")

		Convey("Then differently cased names collide", func() {
			So(idx.Claim(ctx, "AMY"), ShouldBeTrue)
			So(idx.Has(ctx, "amy"), ShouldBeTrue)
		})
	})
}

func TestInMemoryIndexConcurrentClaims(t *testing.T) {
	Convey("Given many goroutines claiming the same name", t, func() {
		ctx := context.Background()
		idx := NewInMemoryIndex()
		var (
			wg      sync.WaitGroup
			winners atomic.Int32
		)
		for i := 0; i < 64; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if !idx.Claim(ctx, "contested") {
					winners.Add(1)
				}
			}()
		}
		wg.Wait()

		Convey("Then exactly one claim succeeds", func() {
			So(winners.Load(), ShouldEqual, int32(1))
			So(idx.Size(), ShouldEqual, int64(1))
		})
	})
}
