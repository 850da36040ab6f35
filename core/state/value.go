package state

// ValueKind discriminates the two kinds of values a key-value slot can
// hold, mirroring the byte-slice/uint split of the schema budget.
type ValueKind uint8

const (
	KindUint  ValueKind = 1
	KindBytes ValueKind = 2
)

// Value is one key-value slot entry.
type Value struct {
	Kind  ValueKind
	Uint  uint64
	Bytes []byte
}

// UintValue wraps a uint64 slot value.
func UintValue(v uint64) Value { return Value{Kind: KindUint, Uint: v} }

// BytesValue wraps a byte-slice slot value.
func BytesValue(b []byte) Value {
	return Value{Kind: KindBytes, Bytes: append([]byte(nil), b...)}
}

// KeyValue pairs a short string key with its slot value. Containers
// keep entries sorted by key so the RLP encoding is deterministic.
type KeyValue struct {
	Key   string
	Value Value
}
