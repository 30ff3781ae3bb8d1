package repository_test

import (
	"errors"
	"testing"

	"github.com/okian/fds/internal/adapters/repository"
	"github.com/okian/fds/internal/domain/observation"
	. "github.com/smartystreets/goconvey/convey"
)

func series(samples ...repository.Sample) repository.Series { return samples }

func sample(key string, o observation.Observation) repository.Sample {
	return repository.Sample{Key: key, Name: key + ".txt", Observation: o}
}

func TestPair(t *testing.T) {
	Convey("Given predictions and labels sharing keys", t, func() {
		predicted := series(sample("a", observation.At(12)), sample("b", observation.At(5)), sample("c", observation.Absent()))
		truth := series(sample("a", observation.At(10)), sample("b", observation.Absent()), sample("c", observation.At(20)))

		Convey("When pairing by key", func() {
			pairs, err := repository.Pair(predicted, truth, repository.PairByKey)

			Convey("Then every sample should be paired with its counterpart", func() {
				So(err, ShouldBeNil)
				So(pairs, ShouldResemble, []observation.Pair{
					{Key: "a", Predicted: observation.At(12), Truth: observation.At(10)},
					{Key: "b", Predicted: observation.At(5), Truth: observation.Absent()},
					{Key: "c", Predicted: observation.Absent(), Truth: observation.At(20)},
				})
			})
		})

		Convey("When pairing by order", func() {
			pairs, err := repository.Pair(predicted, truth, repository.PairByOrder)

			Convey("Then pairs should follow position", func() {
				So(err, ShouldBeNil)
				So(len(pairs), ShouldEqual, 3)
				So(pairs[2].Truth, ShouldResemble, observation.At(20))
			})
		})
	})

	Convey("Given a label without a prediction and a prediction without a label", t, func() {
		predicted := series(sample("a", observation.At(1)), sample("x", observation.At(2)))
		truth := series(sample("a", observation.At(1)), sample("b", observation.At(3)))

		Convey("When pairing by key", func() {
			_, err := repository.Pair(predicted, truth, repository.PairByKey)

			Convey("Then it should fail with ErrUnpaired naming both keys", func() {
				So(errors.Is(err, repository.ErrUnpaired), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "b")
				So(err.Error(), ShouldContainSubstring, "x")
			})
		})
	})

	Convey("Given series of different lengths", t, func() {
		predicted := series(sample("a", observation.At(1)))
		truth := series(sample("a", observation.At(1)), sample("b", observation.At(3)))

		Convey("When pairing by order", func() {
			_, err := repository.Pair(predicted, truth, repository.PairByOrder)

			Convey("Then it should fail with ErrLengthMismatch", func() {
				So(errors.Is(err, repository.ErrLengthMismatch), ShouldBeTrue)
			})
		})
	})

	Convey("Given empty series", t, func() {
		pairs, err := repository.Pair(nil, nil, repository.PairByKey)

		Convey("Then there should be no pairs and no error", func() {
			So(err, ShouldBeNil)
			So(pairs, ShouldBeEmpty)
		})
	})
}

func TestParsePairingMode(t *testing.T) {
	Convey("Given pairing mode names", t, func() {
		Convey("Then known names should parse", func() {
			m, err := repository.ParsePairingMode("Order")
			So(err, ShouldBeNil)
			So(m, ShouldEqual, repository.PairByOrder)

			m, err = repository.ParsePairingMode("")
			So(err, ShouldBeNil)
			So(m, ShouldEqual, repository.PairByKey)
		})

		Convey("Then unknown names should fail", func() {
			_, err := repository.ParsePairingMode("random")
			So(errors.Is(err, repository.ErrUnknownPairing), ShouldBeTrue)
		})
	})
}
