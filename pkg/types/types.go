package types

// Key is compared byte-wise; ordering and prefix matching both rely on it.
type Key = string

// Value is an opaque payload. Stored values are never handed out without a copy.
type Value = []byte

