package metrics

import (
	"path"
	"time"

	"github.com/nakabonne/tstorage"
	"go.uber.org/zap"
)

var storage tstorage.Storage

// InitMetrics opens the embedded timeseries store under the workdir.
func InitMetrics(workdir string) error {
	var err error
	storage, err = tstorage.NewStorage(
		tstorage.WithDataPath(path.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(time.Hour*24*30),
	)
	return err
}

// SetGauge records a gauge sample at the current time. Safe to call before
// InitMetrics; samples are dropped until the store is ready.
func SetGauge(name string, value int64) {
	if storage == nil {
		return
	}
	err := storage.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(value)},
		},
	})
	if err != nil {
		zap.S().Warnf("metrics insert %s error: %s", name, err.Error())
	}
}

// SelectRange returns the samples of a metric between start and end (unix seconds).
func SelectRange(name string, start, end int64) ([]*tstorage.DataPoint, error) {
	if storage == nil {
		return nil, nil
	}
	return storage.Select(name, nil, start, end)
}

func Close() error {
	if storage == nil {
		return nil
	}
	return storage.Close()
}
