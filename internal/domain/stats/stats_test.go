package stats_test

import (
	"testing"

	"github.com/okian/voyage/internal/domain/dataset"
	"github.com/okian/voyage/internal/domain/features"
	"github.com/okian/voyage/internal/domain/model"
	"github.com/okian/voyage/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func sumInts[K comparable](m map[K]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

func TestBasic(t *testing.T) {
	Convey("Given an empty collection", t, func() {
		Convey("Then every aggregate should be nil", func() {
			So(stats.Basic(nil), ShouldBeNil)
			So(stats.Missing(nil), ShouldBeNil)
			So(stats.SurvivalByCategory(nil), ShouldBeNil)
			So(stats.FeatureDistributions(nil), ShouldBeNil)
		})
	})

	Convey("Given the seed records", t, func() {
		b := stats.Basic(dataset.Seed())

		Convey("Then the headline figures should match", func() {
			So(b.TotalPassengers, ShouldEqual, 10)
			So(b.SurvivedCount, ShouldEqual, 5)
			So(b.SurvivalRate, ShouldEqual, 50.0)
		})

		Convey("And age statistics should ignore the unknown age", func() {
			So(b.Age.Known, ShouldEqual, 9)
			So(b.Age.Missing, ShouldEqual, 1)
			So(b.Age.Min, ShouldEqual, 2.0)
			So(b.Age.Max, ShouldEqual, 54.0)
			So(b.Age.Average, ShouldAlmostEqual, 253.0/9.0, 1e-9)
		})

		Convey("And the distributions should match", func() {
			So(b.ClassCounts, ShouldResemble, map[int]int{1: 3, 2: 1, 3: 6})
			So(b.SexCounts, ShouldResemble, map[string]int{model.SexMale: 5, model.SexFemale: 5})
			So(b.EmbarkedCounts, ShouldResemble, map[string]int{"C": 2, "S": 7, "Q": 1, stats.UnknownPort: 0})
		})
	})

	Convey("Given the generated dataset", t, func() {
		ps := dataset.Generate()
		b := stats.Basic(ps)

		Convey("Then every distribution should sum to the total", func() {
			So(sumInts(b.ClassCounts), ShouldEqual, b.TotalPassengers)
			So(sumInts(b.SexCounts), ShouldEqual, b.TotalPassengers)
			So(sumInts(b.EmbarkedCounts), ShouldEqual, b.TotalPassengers)
		})

		Convey("And the survival rate should be a percentage of the survivors", func() {
			So(b.SurvivalRate, ShouldAlmostEqual, 100*float64(b.SurvivedCount)/float64(b.TotalPassengers), 1e-9)
			So(b.SurvivalRate, ShouldBeBetweenOrEqual, 0, 100)
		})

		Convey("And known plus missing ages should cover the dataset", func() {
			So(b.Age.Known+b.Age.Missing, ShouldEqual, len(ps))
		})
	})

	Convey("Given passengers without any recorded age", t, func() {
		b := stats.Basic([]model.Passenger{{ID: 1, Class: 2, Sex: model.SexMale}})

		Convey("Then the age figures should be zero", func() {
			So(b.Age, ShouldResemble, stats.AgeStats{Missing: 1})
		})
	})
}

func TestMissing(t *testing.T) {
	Convey("Given the seed records", t, func() {
		m := stats.Missing(dataset.Seed())

		Convey("Then absent fields should be counted", func() {
			So(m, ShouldResemble, &stats.MissingValues{Age: 1, Cabin: 7, Embarked: 0})
		})
	})
}

func TestSurvivalByCategory(t *testing.T) {
	Convey("Given the seed records", t, func() {
		c := stats.SurvivalByCategory(dataset.Seed())

		Convey("Then class groups should count members and survivors", func() {
			So(*c.ByClass[1], ShouldResemble, stats.Group{Total: 3, Survived: 2})
			So(*c.ByClass[2], ShouldResemble, stats.Group{Total: 1, Survived: 1})
			So(*c.ByClass[3], ShouldResemble, stats.Group{Total: 6, Survived: 2})
		})

		Convey("And sex groups should count members and survivors", func() {
			So(*c.BySex[model.SexFemale], ShouldResemble, stats.Group{Total: 5, Survived: 5})
			So(*c.BySex[model.SexMale], ShouldResemble, stats.Group{Total: 5, Survived: 0})
			So(c.BySex[model.SexFemale].Rate(), ShouldEqual, 100.0)
		})

		Convey("And every port should be present", func() {
			So(*c.ByEmbarked["C"], ShouldResemble, stats.Group{Total: 2, Survived: 2})
			So(*c.ByEmbarked["Q"], ShouldResemble, stats.Group{Total: 1, Survived: 0})
			So(*c.ByEmbarked["S"], ShouldResemble, stats.Group{Total: 7, Survived: 3})
		})
	})

	Convey("Given passengers from a single port", t, func() {
		c := stats.SurvivalByCategory([]model.Passenger{{ID: 1, Class: 1, Sex: model.SexMale, Embarked: model.String("S")}})

		Convey("Then the empty ports should still appear with zero members", func() {
			So(c.ByEmbarked, ShouldContainKey, "C")
			So(c.ByEmbarked["C"].Total, ShouldEqual, 0)
			So(c.ByEmbarked["C"].Rate(), ShouldEqual, 0.0)
			So(c.ByEmbarked["Q"].Total, ShouldEqual, 0)
		})
	})
}

func TestFeatureDistributions(t *testing.T) {
	Convey("Given the engineered seed records", t, func() {
		d := stats.FeatureDistributions(features.EngineerAll(dataset.Seed()))

		Convey("Then titles should be ordered by frequency", func() {
			So(d.Titles, ShouldResemble, []stats.Count{
				{Name: "Mr", Value: 4},
				{Name: "Mrs", Value: 4},
				{Name: "Master", Value: 1},
				{Name: "Miss", Value: 1},
			})
		})

		Convey("And family sizes should be ascending", func() {
			So(d.FamilySizes, ShouldResemble, []stats.Count{
				{Name: "1", Value: 4},
				{Name: "2", Value: 4},
				{Name: "3", Value: 1},
				{Name: "5", Value: 1},
			})
		})

		Convey("And bins should keep their display order", func() {
			So(d.AgeBins, ShouldHaveLength, len(features.AgeBins))
			So(d.AgeBins[0], ShouldResemble, stats.Count{Name: features.AgeChild, Value: 1})
			So(d.AgeBins[5], ShouldResemble, stats.Count{Name: features.AgeUnknown, Value: 1})
			So(d.FareBins, ShouldResemble, []stats.Count{
				{Name: features.FareLow, Value: 4},
				{Name: features.FareMedium, Value: 2},
				{Name: features.FareHigh, Value: 4},
				{Name: features.FareVeryHigh, Value: 0},
			})
		})
	})
}
