package deployerconst

const (
	// SaltLength is the exact length of the salt accepted by deploy.
	SaltLength = 32

	// ErrCodeNotFound is returned if there is no code with the requested hash.
	ErrCodeNotFound = "code not found"
	// ErrInvalidNEF is returned on attempt to upload empty NEF.
	ErrInvalidNEF = "invalid NEF"
	// ErrInvalidManifest is returned on attempt to upload manifest without name.
	ErrInvalidManifest = "invalid manifest"
	// ErrInvalidSalt is returned if salt length differs from SaltLength.
	ErrInvalidSalt = "invalid salt"
	// ErrSaltUsed is returned on repeated deploy with the same invoker and salt.
	ErrSaltUsed = "salt already used"
)

// Code is a NEF and manifest pair stored in the code registry.
type Code struct {
	NEF      []byte
	Manifest []byte
}
