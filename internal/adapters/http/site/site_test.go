package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a site handler", t, func() {
		ctx := context.Background()
		r := chi.NewRouter()

		Convey("When registering the site handler", func() {
			So(Register(ctx, r), ShouldBeNil)

			Convey("Then it should serve the landing page at /", func() {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldContainSubstring, "/api-docs")
				So(w.Body.String(), ShouldContainSubstring, "GET /users")
			})

			Convey("And it should not claim other paths", func() {
				req := httptest.NewRequest(http.MethodGet, "/index.html", nil)
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestSiteFS(t *testing.T) {
	Convey("Given the embedded file system", t, func() {
		Convey("Then index.html is at its root", func() {
			f, err := FS().Open("/index.html")
			So(err, ShouldBeNil)
			So(f.Close(), ShouldBeNil)
		})
	})
}

func TestSiteHandlerWithNilRouter(t *testing.T) {
	Convey("Given a nil router", t, func() {
		So(Register(context.Background(), nil), ShouldEqual, ErrNilRouter)
	})
}
