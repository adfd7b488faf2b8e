// pkg/export/writer.go
package export

import (
	"context"

	"github.com/sapore-ops/scale-audit/pkg/model"
)

// Writer persists the consolidated dataset of one audit run. The column
// names, order and label strings written are a byte-for-byte contract with
// downstream report consumers.
type Writer interface {
	Write(ctx context.Context, records []model.WeighingRecord) error
}
