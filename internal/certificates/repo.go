package certificates

import "context"

// Repo persists the catalog and user enrollments.
type Repo interface {
	Catalog(ctx context.Context) ([]Certificate, error)
	GetCertificate(ctx context.Context, certID string) (Certificate, error)
	// Enroll inserts uc unless the user is already enrolled in the same
	// certificate, in which case the existing enrollment is returned.
	Enroll(ctx context.Context, uc UserCertificate) (UserCertificate, error)
	GetUserCertificate(ctx context.Context, userCertID string) (UserCertificate, error)
	ListByUser(ctx context.Context, userID string) ([]UserCertificate, error)
	ListAll(ctx context.Context) ([]UserCertificate, error)
	// Mutate applies fn to the stored enrollment atomically and persists the result.
	Mutate(ctx context.Context, userCertID string, fn func(*UserCertificate) error) (UserCertificate, error)
}
