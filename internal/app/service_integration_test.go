package service_test

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	service "github.com/okian/voyage/internal/app"
	"github.com/okian/voyage/internal/domain/dataset"
	"github.com/okian/voyage/internal/domain/features"
	"github.com/okian/voyage/internal/domain/model"
	"github.com/okian/voyage/internal/domain/predict"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given two services with the same seed", t, func() {
		ctx := context.Background()
		a := service.New(service.WithLoadDelay(0), service.WithSeed(1912))
		b := service.New(service.WithLoadDelay(0), service.WithSeed(1912))
		defer a.Stop()
		defer b.Stop()
		loaded(ctx, a)
		loaded(ctx, b)

		Convey("Then they should serve identical datasets and metrics", func() {
			pa, err := a.Passengers(ctx, dataset.DefaultTargetSize)
			So(err, ShouldBeNil)
			pb, err := b.Passengers(ctx, dataset.DefaultTargetSize)
			So(err, ShouldBeNil)
			So(pa, ShouldResemble, pb)

			ma, _ := a.ModelMetrics(ctx)
			mb, _ := b.ModelMetrics(ctx)
			So(ma[0].Scores.Accuracy, ShouldEqual, mb[0].Scores.Accuracy)
			So(ma[1].Scores.Accuracy, ShouldEqual, mb[1].Scores.Accuracy)
		})
	})

	Convey("Given generator probabilities configured on the service", t, func() {
		ctx := context.Background()
		svc := service.New(
			service.WithLoadDelay(0),
			service.WithDatasetSize(40),
			service.WithMaleProbability(1),
			service.WithSurvivalProbability(0),
			service.WithUnknownAgeProbability(0),
		)
		defer svc.Stop()
		loaded(ctx, svc)

		Convey("Then every synthetic passenger should follow them", func() {
			ps, err := svc.Passengers(ctx, 40)
			So(err, ShouldBeNil)
			for _, p := range ps[len(dataset.Seed()):] {
				So(p.Sex, ShouldEqual, model.SexMale)
				So(p.Survived, ShouldEqual, model.Died)
				So(p.Age, ShouldNotBeNil)
			}
		})
	})

	Convey("Given a loaded service under concurrent use", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithLoadDelay(0))
		defer svc.Stop()
		loaded(ctx, svc)

		Convey("When many goroutines read and predict at once", func() {
			var wg sync.WaitGroup
			errs := make(chan error, 64)
			for g := 0; g < 16; g++ {
				wg.Add(1)
				go func(seed int64) {
					defer wg.Done()
					rng := rand.New(rand.NewSource(seed))
					for i := 0; i < 20; i++ {
						class := 1 + rng.Intn(3)
						if _, err := svc.Predict(ctx, features.Hypothetical{Class: &class, Age: model.Float(float64(rng.Intn(80)))}); err != nil {
							errs <- err
							return
						}
						if _, err := svc.BasicStats(ctx); err != nil {
							errs <- err
							return
						}
						if _, err := svc.Passenger(ctx, 1+rng.Intn(dataset.DefaultTargetSize)); err != nil {
							errs <- err
							return
						}
					}
				}(int64(g))
			}
			wg.Wait()
			close(errs)

			Convey("Then no call should fail", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}
			})
		})

		Convey("When a prediction is recomputed from the domain packages", func() {
			class, sibsp := 2, 1
			h := features.Hypothetical{Class: &class, SibSp: &sibsp, Sex: model.String(model.SexFemale), Age: model.Float(41)}
			p, err := svc.Predict(ctx, h)
			So(err, ShouldBeNil)

			v := features.Encode(h.Engineered())
			Convey("Then the service result should match", func() {
				So(p.Features, ShouldResemble, v)
				So(p.Linear, ShouldEqual, predict.NewLinearModel(predict.DefaultCoefficients).Predict(v))
				So(p.Tree, ShouldEqual, predict.DecisionTree{}.Predict(v))
			})
		})
	})
}
