package metric

import (
	"bytes"

	"github.com/prometheus/common/expfmt"

	"github.com/DecisionNerd/collie/errors"
)

// TextSnapshot renders every registered metric in the Prometheus text
// exposition format. The compile command prints this after a pass instead of
// serving an endpoint.
func (r *MetricsRegistry) TextSnapshot() (string, error) {
	families, err := r.prometheusRegistry.Gather()
	if err != nil {
		return "", errors.Wrap(err, "MetricsRegistry", "TextSnapshot", "metric gathering")
	}

	var buf bytes.Buffer
	encoder := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			return "", errors.Wrap(err, "MetricsRegistry", "TextSnapshot", "metric encoding")
		}
	}
	return buf.String(), nil
}
