package storage

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"user-registration-service/pkg/security"
)

// AssetStore persists uploaded profile pictures and returns the
// stored-object name to embed in the user record. Nothing is ever read
// back or removed through this interface.
type AssetStore interface {
	// Save stores the content of r under a fresh name derived from originalName.
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	// Location describes where objects are stored (directory or bucket).
	Location() string
}

// Namer produces stored-object names from the uploaded filename.
type Namer func(originalName string) string

// NewNamer returns the naming policy for the given configuration value.
// "timestamp" yields <unix-millis><ext> with the extension in the client's
// casing; anything else yields <unix-millis>-<uuid><ext> with a lower-cased
// extension, which does not collide within a millisecond.
func NewNamer(policy string, now func() time.Time) Namer {
	if now == nil {
		now = time.Now
	}

	if policy == "timestamp" {
		return func(originalName string) string {
			return strconv.FormatInt(now().UnixMilli(), 10) + security.Extension(originalName)
		}
	}

	return func(originalName string) string {
		return fmt.Sprintf("%d-%s%s", now().UnixMilli(), uuid.New().String(), security.SafeExtension(originalName))
	}
}
