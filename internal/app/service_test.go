package service_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"testing/fstest"

	service "github.com/okian/navne/internal/app"
	"github.com/okian/navne/internal/domain/gender"
	"github.com/okian/navne/pkg/logger"
	"github.com/okian/navne/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func testLists() fstest.MapFS {
	return fstest.MapFS{
		gender.DefaultFemaleFile: &fstest.MapFile{Data: []byte("Anna\nAlex\n")},
		gender.DefaultMaleFile:   &fstest.MapFile{Data: []byte("Finn\nKim\n")},
		gender.DefaultUnisexFile: &fstest.MapFile{Data: []byte("Alex\nKim\nRobin\n")},
	}
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service over test lists", t, func() {
		registry := prometheus.NewRegistry()
		svc := service.New(
			service.WithLookupOptions(gender.WithFS(testLists())),
			service.WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(registry))),
		)
		defer svc.Stop()

		Convey("When it has not been started", func() {
			_, err := svc.Predict(context.Background(), "Finn")

			Convey("Then predictions fail with ErrNotStarted", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(svc.Ready(), ShouldBeFalse)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
				So(svc.Ready(), ShouldBeTrue)
			})

			Convey("And starting again is a no-op", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
			})

			Convey("And the stats reflect the loaded lists", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["names"], ShouldEqual, 5)
				So(stats["female"], ShouldEqual, 1)
				So(stats["male"], ShouldEqual, 1)
				So(stats["unisex"], ShouldEqual, 3)
				So(stats["loadedAt"], ShouldNotBeEmpty)
			})

			Convey("And the table size is exported", func() {
				n, err := testutil.GatherAndCount(registry, "navne_gender_names_loaded")
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 3)
			})

			Convey("And stopping makes it unavailable again", func() {
				svc.Stop()
				_, err := svc.Predict(context.Background(), "Finn")
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service whose lists are missing", t, func() {
		registry := prometheus.NewRegistry()
		svc := service.New(
			service.WithLookupOptions(gender.WithFS(fstest.MapFS{})),
			service.WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(registry))),
		)

		err := svc.Start(context.Background())

		Convey("Then start fails with the lookup error kind", func() {
			So(errors.Is(err, gender.ErrResourceNotFound), ShouldBeTrue)
			So(svc.Ready(), ShouldBeFalse)
		})

		Convey("Then the failure is counted", func() {
			n, err := testutil.GatherAndCount(registry, "navne_gender_load_errors_total")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
		})
	})
}

func TestService_Predict(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(
			service.WithLookupOptions(gender.WithFS(testLists())),
			service.WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))),
		)
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		ctx := context.Background()

		Convey("When predicting a full name", func() {
			p, err := svc.Predict(ctx, "Finn Nielsen")

			Convey("Then the first token decides", func() {
				So(err, ShouldBeNil)
				So(p.Name, ShouldEqual, "Finn Nielsen")
				So(p.Key, ShouldEqual, "Finn")
				So(p.Score, ShouldEqual, 1.0)
				So(p.Category, ShouldEqual, gender.Male)
			})
		})

		Convey("When predicting a name present as female and unisex", func() {
			p, err := svc.Predict(ctx, "Alex")
			So(err, ShouldBeNil)
			So(p.Score, ShouldEqual, 0.5)
			So(p.Category, ShouldEqual, gender.Unisex)
		})

		Convey("When predicting an unknown name", func() {
			p, err := svc.Predict(ctx, "ZZZ")
			So(err, ShouldBeNil)
			So(p.Score, ShouldEqual, 0.5)
			So(p.Category, ShouldEqual, gender.Unknown)
		})

		Convey("When predicting a batch", func() {
			ps, err := svc.PredictBatch(ctx, []string{"Anna", "Finn", "", "Robin"})

			Convey("Then results keep the input order", func() {
				So(err, ShouldBeNil)
				So(len(ps), ShouldEqual, 4)
				So(ps[0].Score, ShouldEqual, 0.0)
				So(ps[1].Score, ShouldEqual, 1.0)
				So(ps[2].Score, ShouldEqual, 0.5)
				So(ps[2].Category, ShouldEqual, gender.Unknown)
				So(ps[3].Category, ShouldEqual, gender.Unisex)
			})
		})
	})
}
