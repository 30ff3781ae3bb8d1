package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/fds/internal/adapters/repository"
	service "github.com/okian/fds/internal/app"
	"github.com/okian/fds/internal/domain/detection"
	"github.com/okian/fds/internal/domain/observation"
	"github.com/okian/fds/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeStore serves fixed series per directory.
type fakeStore struct {
	series map[string]repository.Series
	err    error
}

func (f *fakeStore) Load(_ context.Context, dir string) (repository.Series, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.series[dir], nil
}

// recorder captures what the service records.
type recorder struct {
	loaded   map[string]int
	classes  map[string]int
	delays   []int
	values   map[string]float64
	undef    []string
	errors   []string
	runCount int
}

func newRecorder() *recorder {
	return &recorder{loaded: map[string]int{}, classes: map[string]int{}, values: map[string]float64{}}
}

func (r *recorder) RecordSamplesLoaded(source string, n int)  { r.loaded[source] += n }
func (r *recorder) RecordClassifications(class string, n int) { r.classes[class] += n }
func (r *recorder) ObserveDelay(frames int)                   { r.delays = append(r.delays, frames) }
func (r *recorder) RecordRun(time.Duration, time.Time)        { r.runCount++ }
func (r *recorder) RecordError(stage string)                  { r.errors = append(r.errors, stage) }
func (r *recorder) SetReportValue(metric string, value float64, defined bool) {
	if !defined {
		r.undef = append(r.undef, metric)
		return
	}
	r.values[metric] = value
}

func smp(key string, o observation.Observation) repository.Sample {
	return repository.Sample{Key: key, Name: key + ".txt", Observation: o}
}

func TestService_Evaluate(t *testing.T) {
	Convey("Given truth [10, -, 20] and predictions [12, 5, -]", t, func() {
		store := &fakeStore{series: map[string]repository.Series{
			"results": {smp("s0", observation.At(12)), smp("s1", observation.At(5)), smp("s2", observation.Absent())},
			"labels":  {smp("s0", observation.At(10)), smp("s1", observation.Absent()), smp("s2", observation.At(20))},
		}}
		rec := newRecorder()
		svc := service.New(service.WithStore(store), service.WithRecorder(rec))
		req := service.Request{
			ResultsDir: "results",
			LabelsDir:  "labels",
			Resources:  scoring.Resources{TotalFrames: 100, ProcessingTime: 10},
		}

		Convey("When evaluating", func() {
			res, err := svc.Evaluate(context.Background(), req)

			Convey("Then there should be one TP, one FP and one FN", func() {
				So(err, ShouldBeNil)
				So(res.Report.Counts, ShouldResemble, detection.Counts{TruePositive: 1, FalsePositive: 1, FalseNegative: 1})
				So(res.Samples, ShouldEqual, 3)
			})

			Convey("And precision and recall should be 0.5", func() {
				So(res.Report.Precision.Value, ShouldAlmostEqual, 0.5)
				So(res.Report.Recall.Value, ShouldAlmostEqual, 0.5)
				So(res.Report.MeanDelay.Value, ShouldAlmostEqual, 2.0)
			})

			Convey("And the run should carry an id and its settings", func() {
				So(res.RunID, ShouldNotBeBlank)
				So(res.Pairing, ShouldEqual, "key")
				So(res.Delta, ShouldEqual, detection.DefaultDelta)
				So(len(res.Verdicts), ShouldEqual, 3)
			})

			Convey("And metrics should be recorded", func() {
				So(rec.loaded["predicted"], ShouldEqual, 3)
				So(rec.loaded["truth"], ShouldEqual, 3)
				So(rec.classes["TP"], ShouldEqual, 1)
				So(rec.classes["FP"], ShouldEqual, 1)
				So(rec.classes["FN"], ShouldEqual, 1)
				So(rec.delays, ShouldResemble, []int{2})
				So(rec.values["precision"], ShouldAlmostEqual, 0.5)
				So(rec.undef, ShouldBeEmpty)
				So(rec.runCount, ShouldEqual, 1)
			})
		})

		Convey("When two runs are evaluated", func() {
			first, err1 := svc.Evaluate(context.Background(), req)
			second, err2 := svc.Evaluate(context.Background(), req)

			Convey("Then each should get its own run id and identical reports", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first.RunID, ShouldNotEqual, second.RunID)
				So(first.Report, ShouldResemble, second.Report)
			})
		})

		Convey("When evaluating with a zero tolerance", func() {
			res, err := service.New(service.WithStore(store), service.WithDelta(0)).Evaluate(context.Background(), req)

			Convey("Then the late prediction should still be a true positive", func() {
				So(err, ShouldBeNil)
				So(res.Report.Counts.TruePositive, ShouldEqual, 1)
			})
		})
	})

	Convey("Given labels with no events at all", t, func() {
		store := &fakeStore{series: map[string]repository.Series{
			"results": {smp("a", observation.Absent())},
			"labels":  {smp("a", observation.Absent())},
		}}
		rec := newRecorder()
		svc := service.New(service.WithStore(store), service.WithRecorder(rec))

		Convey("When evaluating", func() {
			res, err := svc.Evaluate(context.Background(), service.Request{ResultsDir: "results", LabelsDir: "labels"})

			Convey("Then it should succeed with undefined metrics", func() {
				So(err, ShouldBeNil)
				So(res.Report.Counts.TrueNegative, ShouldEqual, 1)
				So(res.Report.Precision.Defined, ShouldBeFalse)
				So(res.Report.Score.Defined, ShouldBeFalse)
				So(rec.undef, ShouldContain, "score")
			})
		})
	})

	Convey("Given a store that fails", t, func() {
		boom := errors.New("disk gone")
		rec := newRecorder()
		svc := service.New(service.WithStore(&fakeStore{err: boom}), service.WithRecorder(rec))

		Convey("When evaluating", func() {
			_, err := svc.Evaluate(context.Background(), service.Request{ResultsDir: "r", LabelsDir: "l"})

			Convey("Then the error should be wrapped and counted", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				So(rec.errors, ShouldResemble, []string{"load"})
			})
		})
	})

	Convey("Given directories with different sample keys", t, func() {
		store := &fakeStore{series: map[string]repository.Series{
			"results": {smp("a", observation.At(1))},
			"labels":  {smp("b", observation.At(1))},
		}}
		rec := newRecorder()

		Convey("When evaluating by key", func() {
			_, err := service.New(service.WithStore(store), service.WithRecorder(rec)).
				Evaluate(context.Background(), service.Request{ResultsDir: "results", LabelsDir: "labels"})

			Convey("Then it should fail with ErrUnpaired", func() {
				So(errors.Is(err, repository.ErrUnpaired), ShouldBeTrue)
				So(rec.errors, ShouldResemble, []string{"pair"})
			})
		})

		Convey("When evaluating by order", func() {
			res, err := service.New(service.WithStore(store), service.WithPairing(repository.PairByOrder)).
				Evaluate(context.Background(), service.Request{ResultsDir: "results", LabelsDir: "labels"})

			Convey("Then samples should pair positionally", func() {
				So(err, ShouldBeNil)
				So(res.Report.Counts.TruePositive, ShouldEqual, 1)
			})
		})
	})

	Convey("Given negative resource measurements", t, func() {
		store := &fakeStore{series: map[string]repository.Series{}}
		rec := newRecorder()
		svc := service.New(service.WithStore(store), service.WithRecorder(rec))

		Convey("Then evaluation should fail with ErrInvalidResources", func() {
			_, err := svc.Evaluate(context.Background(), service.Request{Resources: scoring.Resources{ProcessingTime: -1}})
			So(errors.Is(err, scoring.ErrInvalidResources), ShouldBeTrue)
			So(rec.errors, ShouldResemble, []string{"score"})
		})
	})
}

func writeDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}
