package resolve

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_resolutions_total",
		Help: "Role resolution runs by outcome.",
	}, []string{"outcome"})

	provisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_provisions_total",
		Help: "Student records auto-provisioned.",
	})
)
