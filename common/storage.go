package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Initialization errors shared by registry contracts.
const (
	// ErrAlreadyInitialized is thrown on a repeated initialize call.
	ErrAlreadyInitialized = "AlreadyInitialized"
	// ErrNotInitialized is thrown when a single-value slot is requested
	// before initialize was called.
	ErrNotInitialized = "NotInitialized"
	// ErrEmptyArg is thrown when a mandatory string argument is empty.
	ErrEmptyArg = "EmptyArg"
)

// InitializedKey is a storage key of the one-shot initialization flag.
const InitializedKey = "initialized"

// GetList returns serialized list of addresses stored by the given key.
// Missing key is treated as an empty list.
func GetList(ctx storage.Context, key any) []interop.Hash160 {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).([]interop.Hash160)
	}

	return []interop.Hash160{}
}

// GetSerialized returns deserialized value stored by the given key or nil.
func GetSerialized(ctx storage.Context, key any) any {
	data := storage.Get(ctx, key)
	if data == nil {
		return nil
	}

	return std.Deserialize(data.([]byte))
}

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key any, value any) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// IsInitialized checks whether initialization flag is set.
func IsInitialized(ctx storage.Context) bool {
	return storage.Get(ctx, InitializedKey) != nil
}

// MarkInitialized sets the initialization flag. It panics with
// ErrAlreadyInitialized if the flag is already set.
func MarkInitialized(ctx storage.Context) {
	if IsInitialized(ctx) {
		panic(ErrAlreadyInitialized)
	}

	storage.Put(ctx, InitializedKey, true)
}

// GetAddress returns address stored by the given key. It panics with
// ErrNotInitialized if there is no such key.
func GetAddress(ctx storage.Context, key any) interop.Hash160 {
	data := storage.Get(ctx, key)
	if data == nil {
		panic(ErrNotInitialized)
	}

	return data.(interop.Hash160)
}
