package scorerconst

import "github.com/nspcc-dev/neo-go/pkg/interop"

const (
	// ContractVersion identifies the build of the Scorer code. It differs
	// between code revisions, so it can be used to check that an upgrade took
	// effect.
	ContractVersion = 1

	// MaxScore is the upper bound of badge and user scores.
	MaxScore = 10000

	// UserAlreadyExistError is returned on attempt to add an active user.
	UserAlreadyExistError = "UserAlreadyExist"
	// UserDoesNotExistError is returned on attempt to remove an inactive or
	// unknown user.
	UserDoesNotExistError = "UserDoesNotExist"
	// BadgeAlreadyExistsError is returned on attempt to add a badge with the
	// same name and issuer as an existing one.
	BadgeAlreadyExistsError = "BadgeAlreadyExists"
	// BadgeNotFoundError is returned if badge is missing.
	BadgeNotFoundError = "BadgeNotFound"
	// InvalidScoreRangeError is returned if score is out of allowed range.
	InvalidScoreRangeError = "InvalidScoreRange"
	// InvalidIssuerError is returned if badge issuer is not a valid address.
	InvalidIssuerError = "InvalidIssuer"
	// RegistryNotSetError is returned by upgrade if the contract was deployed
	// without code registry address.
	RegistryNotSetError = "code registry is not set"
)

// Badge is a named scored credential issued by an address. Badges are
// unique by name and issuer.
type Badge struct {
	Name   string
	Issuer interop.Hash160
	Score  int
	Icon   string
}

// Metadata contains display information of the Scorer.
type Metadata struct {
	Name        string
	Description string
	Icon        string
}

// Policy contains Scorer behavior switches set by the creator.
type Policy struct {
	// AllowZeroScore permits badges with zero score.
	AllowZeroScore bool
	// KeepLastManager forbids removal of the last manager.
	KeepLastManager bool
}
