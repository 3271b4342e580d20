package elasticity_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/feeshock/internal/domain/elasticity"
	. "github.com/smartystreets/goconvey/convey"
)

const epsilon = 1e-9

func TestProject(t *testing.T) {
	Convey("Given the constant-elasticity formula", t, func() {
		Convey("When a $25k fee quadruples at ε = -0.3", func() {
			got := elasticity.Project(1000, 25_000, 100_000, -0.3)

			Convey("Then volume should drop by 90%", func() {
				So(got, ShouldAlmostEqual, 100, epsilon)
			})
		})

		Convey("When the projection would go negative", func() {
			got := elasticity.Project(100, 1_000, 100_000, -2.0)

			Convey("Then it should clamp at zero", func() {
				So(got, ShouldEqual, 0)
			})
		})

		Convey("When the fee does not change", func() {
			So(elasticity.Project(420, 25_000, 25_000, -0.3), ShouldEqual, 420)
		})

		Convey("When called repeatedly with the same inputs", func() {
			first := elasticity.Project(1234, 25_000, 60_000, -0.45)
			for range 10 {
				So(elasticity.Project(1234, 25_000, 60_000, -0.45), ShouldEqual, first)
			}
		})

		Convey("When the baseline volume is zero", func() {
			So(elasticity.Project(0, 25_000, 100_000, -0.3), ShouldEqual, 0)
		})
	})
}

func TestParams(t *testing.T) {
	Convey("Given default params", t, func() {
		p := elasticity.NewParams()

		Convey("Then they should match the published scenario", func() {
			So(p.Elasticity, ShouldEqual, -0.3)
			So(p.BaselineFee, ShouldEqual, 25_000)
			So(p.TargetFee, ShouldEqual, 100_000)
			So(p.Validate(), ShouldBeNil)
		})

		Convey("Then the derived change should be severe", func() {
			So(p.FeeChange(), ShouldAlmostEqual, 3, epsilon)
			So(p.ChangePct(), ShouldAlmostEqual, -90, epsilon)
			So(p.Impact(), ShouldEqual, elasticity.ImpactSevere)
		})

		Convey("When options override the defaults", func() {
			p := elasticity.NewParams(
				elasticity.WithElasticity(-0.1),
				elasticity.WithBaselineFee(10_000),
				elasticity.WithTargetFee(15_000),
			)
			So(p.ChangePct(), ShouldAlmostEqual, -5, epsilon)
			So(p.Impact(), ShouldEqual, elasticity.ImpactMild)
		})
	})

	Convey("Given invalid params", t, func() {
		Convey("When the baseline fee is zero", func() {
			err := elasticity.NewParams(elasticity.WithBaselineFee(0)).Validate()
			So(errors.Is(err, elasticity.ErrZeroBaselineFee), ShouldBeTrue)
			So(errors.Is(err, elasticity.ErrInvalidParams), ShouldBeTrue)
		})

		Convey("When a fee is negative", func() {
			err := elasticity.NewParams(elasticity.WithTargetFee(-5)).Validate()
			So(errors.Is(err, elasticity.ErrInvalidParams), ShouldBeTrue)
			So(errors.Is(err, elasticity.ErrZeroBaselineFee), ShouldBeFalse)
		})

		Convey("When elasticity is not finite", func() {
			So(elasticity.NewParams(elasticity.WithElasticity(math.NaN())).Validate(), ShouldNotBeNil)
			So(elasticity.NewParams(elasticity.WithTargetFee(math.Inf(1))).Validate(), ShouldNotBeNil)
		})

		Convey("Then NewProjector should refuse them", func() {
			pr, err := elasticity.NewProjector(elasticity.Params{BaselineFee: 0, TargetFee: 100})
			So(pr, ShouldBeNil)
			So(errors.Is(err, elasticity.ErrZeroBaselineFee), ShouldBeTrue)
		})
	})
}

func TestProjector(t *testing.T) {
	Convey("Given a projector for the default scenario", t, func() {
		pr, err := elasticity.NewProjector(elasticity.NewParams())
		So(err, ShouldBeNil)

		Convey("Then it should agree with the free function", func() {
			So(pr.Project(1000), ShouldEqual, elasticity.Project(1000, 25_000, 100_000, -0.3))
			So(pr.Params(), ShouldResemble, elasticity.NewParams())
		})

		Convey("Then the realized change should be computed against the baseline", func() {
			So(elasticity.ChangePct(1000, pr.Project(1000)), ShouldAlmostEqual, -90, epsilon)
			So(elasticity.ChangePct(0, 0), ShouldEqual, 0)
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given percentage changes of different sizes", t, func() {
		So(elasticity.Classify(0), ShouldEqual, elasticity.ImpactMild)
		So(elasticity.Classify(-9.99), ShouldEqual, elasticity.ImpactMild)
		So(elasticity.Classify(10), ShouldEqual, elasticity.ImpactModerate)
		So(elasticity.Classify(-39.9), ShouldEqual, elasticity.ImpactModerate)
		So(elasticity.Classify(40), ShouldEqual, elasticity.ImpactSevere)
		So(elasticity.Classify(-90), ShouldEqual, elasticity.ImpactSevere)
	})
}
