package untyped

import (
	"context"
	"time"

	"github.com/verge-io/go-verge-client/core"
)

// Snapshot wraps the machine_snapshots table. Rows carry an expires column
// as unix epoch; zero means the snapshot never expires.
type Snapshot struct {
	*core.VergeResource
}

// ListForMachineWithContext lists all snapshots of a machine.
func (s *Snapshot) ListForMachineWithContext(ctx context.Context, machineKey int64) (core.RecordSet, error) {
	params := core.Params{}
	core.NewFilter().Eq("machine", machineKey).ApplyTo(params)
	return s.ListWithContext(ctx, params)
}

// ListForMachine lists a machine's snapshots using the bound REST context.
func (s *Snapshot) ListForMachine(machineKey int64) (core.RecordSet, error) {
	return s.ListForMachineWithContext(s.Rest.GetCtx(), machineKey)
}

// TakeWithContext creates a snapshot of a machine. A zero ttl produces a
// snapshot that never expires; otherwise expires is set to now+ttl. When
// quiesce is true the guest agent pauses disk I/O while the snapshot is cut,
// which requires agent cooperation inside the guest.
func (s *Snapshot) TakeWithContext(ctx context.Context, machineKey int64, name string, ttl time.Duration, quiesce bool) (core.Record, error) {
	if name == "" {
		return nil, &core.ValidationError{Field: "name", Message: "snapshot name cannot be empty"}
	}
	body := core.Params{
		"machine": machineKey,
		"name":    name,
	}
	if ttl > 0 {
		body["expires"] = time.Now().Add(ttl).Unix()
	}
	if quiesce {
		body["quiesce"] = true
	}
	return s.CreateWithContext(ctx, body)
}

// Take creates a snapshot of a machine using the bound REST context.
func (s *Snapshot) Take(machineKey int64, name string, ttl time.Duration, quiesce bool) (core.Record, error) {
	return s.TakeWithContext(s.Rest.GetCtx(), machineKey, name, ttl, quiesce)
}

// ExpiresAt returns the snapshot's expiry time, nil when it never expires.
func (s *Snapshot) ExpiresAt(record core.Record) *time.Time {
	epoch, err := core.ToInt(record["expires"])
	if err != nil {
		return nil
	}
	return core.EpochToTime(epoch)
}
