package scorerfactoryconst

const (
	// MinInitArgs is the minimum number of Scorer initialization arguments
	// accepted by createScorer.
	MinInitArgs = 3

	// ScorerNotFoundError is returned if scorer is missing in the directory.
	ScorerNotFoundError = "ScorerNotFound"
	// InvalidInitArgsError is returned if there are less than MinInitArgs
	// initialization arguments.
	InvalidInitArgsError = "InvalidInitArgs"
	// RegistryNotSetError is returned by createScorer if the factory was
	// deployed without code registry address.
	RegistryNotSetError = "code registry is not set"
)

// Policy contains ScorerFactory behavior switches set by the creator.
type Policy struct {
	// ManagerOnlyCreate restricts scorer creation to managers.
	ManagerOnlyCreate bool
	// KeepLastManager forbids removal of the last manager.
	KeepLastManager bool
}
