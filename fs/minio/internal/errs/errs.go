// Package errs translates minio-go errors into core sentinels.
package errs

import (
	"fmt"

	"github.com/minio/minio-go/v7"

	"github.com/jmgilman/storify/fs/core"
)

// Translate converts S3 error responses to core errors. The minio error
// stays in the chain.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	errResp := minio.ToErrorResponse(err)

	switch errResp.Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return fmt.Errorf("%w: %w", core.ErrNotExist, err)
	case "AccessDenied":
		return fmt.Errorf("%w: %w", core.ErrPermission, err)
	}

	return fmt.Errorf("minio: %w", err)
}
