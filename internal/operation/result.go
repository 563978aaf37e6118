package operation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/isimp/internal/logger"
	"github.com/Faultbox/isimp/internal/vsa"
)

// Status is the outcome of Execute.
type Status int

const (
	StatusOK Status = iota
	StatusFailed
)

func (s Status) String() string {
	if s == StatusOK {
		return "ok"
	}
	return "failed"
}

// Result is the status and message reported to the user for one operation.
type Result struct {
	Status  Status
	Kind    vsa.Kind // Zero on success
	Message string
	Err     error
	Metrics *vsa.Metrics
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Mesh is a host that can be both read and written.
type Mesh interface {
	Host
	HostWriter
}

// Execute applies op to mesh and commits the result. Failures come back in
// the Result, never as a panic.
func Execute(mesh Mesh, op Operation, params Params) Result {
	numFaces := mesh.NumFaces()
	delta, m, err := Apply(mesh, op, params)
	if err == nil {
		err = Commit(delta, mesh, numFaces)
	}
	if err != nil {
		logger.Named("operation").Error("operation failed", zap.Stringer("op", op), zap.Error(err))
		return Result{
			Status:  StatusFailed,
			Kind:    vsa.KindOf(err),
			Message: err.Error(),
			Err:     err,
			Metrics: m,
		}
	}
	return Result{
		Status:  StatusOK,
		Message: summary(op, mesh, delta),
		Metrics: m,
	}
}

func summary(op Operation, mesh Mesh, d *Delta) string {
	switch {
	case d.Geometry != nil:
		return fmt.Sprintf("%s: %d polygons, %d vertices, %d holes",
			op, d.Geometry.NumFaces(), len(d.Geometry.Positions), len(d.Geometry.Holes))
	case d.SeedBlob != nil:
		return fmt.Sprintf("%s: %d proxy slots over %d faces", op, len(d.SeedBlob)/4, mesh.NumFaces())
	case d.DisplayColors != nil && *d.DisplayColors:
		return fmt.Sprintf("%s: colors on", op)
	default:
		return fmt.Sprintf("%s: colors off", op)
	}
}
