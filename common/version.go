package common

import "github.com/nspcc-dev/neo-go/pkg/interop/native/std"

// Version is the version of registry contracts encoded as
// major*1_000_000 + minor*1_000 + patch. It must match VERSION file.
const Version = 0*1_000_000 + 1*1_000 + 0

// MinUpdateVersion is the oldest contract version that can be updated to
// Version in place.
const MinUpdateVersion = 0*1_000_000 + 0*1_000 + 1

// Update errors.
const (
	ErrVersionMismatch = "previous version mismatch"
	ErrAlreadyUpdated  = "contract is already of the latest version"
)

// CheckVersion panics if the contract of the given version can't be updated
// to Version.
func CheckVersion(from int) {
	if from < MinUpdateVersion {
		panic(ErrVersionMismatch + ": expected >=" + std.Itoa(MinUpdateVersion, 10))
	}
	if from == Version {
		panic(ErrAlreadyUpdated + ": " + std.Itoa(Version, 10))
	}
}

// CheckUpdateData checks the version which AppendVersion put to the end of
// the update data.
func CheckUpdateData(data any) {
	args := data.([]any)
	CheckVersion(args[len(args)-1].(int))
}

// AppendVersion adds the version of the running code to the update data, so
// the new code can check it in _deploy.
func AppendVersion(data any) []any {
	if data == nil {
		return []any{Version}
	}
	return append(data.([]any), Version)
}
