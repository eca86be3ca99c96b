package drop

type Repository interface {
	FindByFingerprint(fingerprint string) (*Entry, error)
	// Add appends e, returning ErrDuplicate when its fingerprint is already present.
	Add(e Entry) error
	List() (Entries, error)
}
