package handlers

import (
	"errors"

	apperrors "github.com/baladiya/complaint-service/pkg/util"
)

func errorCode(err error) string {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
