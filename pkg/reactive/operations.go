package reactive

// TrackOp identifies the kind of read being tracked.
type TrackOp uint8

const (
	// TrackGet is a keyed read (property access, map lookup, index read).
	TrackGet TrackOp = iota + 1

	// TrackHas is an existence check.
	TrackHas

	// TrackIterate is an enumeration of keys, values, or entries.
	TrackIterate
)

// String returns a human-readable name for the track operation.
func (op TrackOp) String() string {
	switch op {
	case TrackGet:
		return "get"
	case TrackHas:
		return "has"
	case TrackIterate:
		return "iterate"
	default:
		return "unknown"
	}
}

// TriggerOp identifies the kind of mutation being triggered.
type TriggerOp uint8

const (
	// TriggerSet overwrites an existing key.
	TriggerSet TriggerOp = iota + 1

	// TriggerAdd introduces a new key.
	TriggerAdd

	// TriggerDelete removes a key.
	TriggerDelete

	// TriggerClear empties a keyed collection.
	TriggerClear
)

// String returns a human-readable name for the trigger operation.
func (op TriggerOp) String() string {
	switch op {
	case TriggerSet:
		return "set"
	case TriggerAdd:
		return "add"
	case TriggerDelete:
		return "delete"
	case TriggerClear:
		return "clear"
	default:
		return "unknown"
	}
}

// sentinelKey is the type of the private iteration keys. A dedicated type
// keeps them from ever colliding with user keys.
type sentinelKey uint8

const (
	// iterateKey tracks key enumeration, existence sweeps, and size reads.
	iterateKey sentinelKey = iota + 1

	// mapKeyIterateKey tracks key-only enumeration of maps, which is not
	// affected by value-only writes.
	mapKeyIterateKey
)

// lengthKey is the literal key used for array length tracking.
const lengthKey = "length"
