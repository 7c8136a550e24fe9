package switching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "switching_load_total",
		Help: "Switching file loads by result (ok, template, io_error, parse_error).",
	}, []string{"result"})

	filesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "switching_files_written_total",
		Help: "Switching files written, by kind (template, values).",
	}, []string{"kind"})
)
