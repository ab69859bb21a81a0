package service

import (
	"errors"
	"testing"

	"github.com/okian/voyage/internal/adapters/mq/worker"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStage(t *testing.T) {
	Convey("Given a sequential build step", t, func() {
		Convey("When it completes", func() {
			ran := false
			err := stage("generate", func() { ran = true })

			Convey("Then no error should be reported", func() {
				So(err, ShouldBeNil)
				So(ran, ShouldBeTrue)
			})
		})

		Convey("When it panics", func() {
			err := stage("engineer", func() { panic("bad record") })

			Convey("Then the panic should abort the step as a task panic", func() {
				So(errors.Is(err, worker.ErrTaskPanic), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "engineer")
				So(err.Error(), ShouldContainSubstring, "bad record")
			})
		})
	})
}
