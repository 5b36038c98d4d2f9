package shared

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ownerSlugFieldNameConstant        = "owner"
	repositoryNameFieldNameConstant   = "repository name"
	ownerRepositoryFieldNameConstant  = "owner/repository"
	requiredValueMessageConstant      = "value required"
	forbiddenCharactersMessageConst   = "contains forbidden characters"
	ownerRepositoryFormatMessageConst = "expected owner/repository"
	invalidValueTemplateConstant      = "invalid %s %q: %s"
	forbiddenSlugCharactersConstant   = "/ \t\r\n"
)

// ErrInvalidValue is the sentinel wrapped by every value validation failure.
var ErrInvalidValue = errors.New("invalid value")

// InvalidValueError describes a rejected value.
type InvalidValueError struct {
	FieldName string
	Value     string
	Message   string
}

// Error describes the invalid value.
func (valueError InvalidValueError) Error() string {
	return fmt.Sprintf(invalidValueTemplateConstant, valueError.FieldName, valueError.Value, valueError.Message)
}

// Unwrap exposes the sentinel.
func (valueError InvalidValueError) Unwrap() error {
	return ErrInvalidValue
}

// OwnerSlug is a validated user or organization login.
type OwnerSlug string

// NewOwnerSlug validates an owner login.
func NewOwnerSlug(raw string) (OwnerSlug, error) {
	trimmed, validationError := validateSlug(raw, ownerSlugFieldNameConstant)
	if validationError != nil {
		return "", validationError
	}
	return OwnerSlug(trimmed), nil
}

// String returns the login.
func (slug OwnerSlug) String() string {
	return string(slug)
}

// RepositoryName is a validated repository name without its owner.
type RepositoryName string

// NewRepositoryName validates a repository name.
func NewRepositoryName(raw string) (RepositoryName, error) {
	trimmed, validationError := validateSlug(raw, repositoryNameFieldNameConstant)
	if validationError != nil {
		return "", validationError
	}
	return RepositoryName(trimmed), nil
}

// String returns the name.
func (name RepositoryName) String() string {
	return string(name)
}

// OwnerRepository pairs an owner with a repository name.
type OwnerRepository struct {
	owner      OwnerSlug
	repository RepositoryName
}

// NewOwnerRepository parses an owner/repository tuple.
func NewOwnerRepository(raw string) (OwnerRepository, error) {
	trimmed := strings.TrimSpace(raw)
	ownerPart, repositoryPart, found := strings.Cut(trimmed, fullNameSeparatorConstant)
	if !found {
		return OwnerRepository{}, InvalidValueError{FieldName: ownerRepositoryFieldNameConstant, Value: raw, Message: ownerRepositoryFormatMessageConst}
	}
	owner, ownerError := NewOwnerSlug(ownerPart)
	if ownerError != nil {
		return OwnerRepository{}, ownerError
	}
	repository, repositoryError := NewRepositoryName(repositoryPart)
	if repositoryError != nil {
		return OwnerRepository{}, repositoryError
	}
	return OwnerRepository{owner: owner, repository: repository}, nil
}

// Owner returns the owner part.
func (ownerRepository OwnerRepository) Owner() OwnerSlug {
	return ownerRepository.owner
}

// Repository returns the repository part.
func (ownerRepository OwnerRepository) Repository() RepositoryName {
	return ownerRepository.repository
}

// String renders the full name.
func (ownerRepository OwnerRepository) String() string {
	return NewRepositoryFullName(ownerRepository.owner.String(), ownerRepository.repository.String())
}

func validateSlug(raw string, fieldName string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", InvalidValueError{FieldName: fieldName, Value: raw, Message: requiredValueMessageConstant}
	}
	if strings.ContainsAny(trimmed, forbiddenSlugCharactersConstant) {
		return "", InvalidValueError{FieldName: fieldName, Value: raw, Message: forbiddenCharactersMessageConst}
	}
	return trimmed, nil
}
