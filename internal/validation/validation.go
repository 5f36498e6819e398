package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidateRequired valida que un campo no esté vacío
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateMinLength valida la longitud mínima de un string
func ValidateMinLength(value string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < minLength {
		return fmt.Errorf("%s must be at least %d characters long", fieldName, minLength)
	}
	return nil
}

// ValidateMaxLength valida la longitud máxima de un string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) > maxLength {
		return fmt.Errorf("%s must be at most %d characters long", fieldName, maxLength)
	}
	return nil
}

// ValidateUUID valida que un string sea un UUID válido
func ValidateUUID(value, fieldName string) error {
	if _, err := uuid.Parse(value); err != nil {
		return errors.New(fieldName + " must be a valid UUID")
	}
	return nil
}

// ValidatePhone acepta vacío o entre 8 y 15 dígitos, con separadores libres
func ValidatePhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return nil
	}

	digits := 0
	for _, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits++
		case strings.ContainsRune("+-() .", r):
		default:
			return errors.New("phone may only contain digits, spaces and + - ( )")
		}
	}

	if digits < 8 || digits > 15 {
		return errors.New("phone must have between 8 and 15 digits")
	}
	return nil
}

// GroupValidation contiene validaciones específicas para grupos
type GroupValidation struct{}

// ValidateGroupName valida el nombre de un grupo
func (v GroupValidation) ValidateGroupName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	if err := ValidateMaxLength(name, 100, "name"); err != nil {
		return err
	}
	return nil
}

// ParticipantValidation contiene validaciones específicas para participantes
type ParticipantValidation struct{}

// ValidateParticipantName valida el nombre de un participante
func (v ParticipantValidation) ValidateParticipantName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	if err := ValidateMaxLength(name, 50, "name"); err != nil {
		return err
	}
	return nil
}

// ValidateExclusions checks that every id is a UUID and appears once
func (v ParticipantValidation) ValidateExclusions(ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if err := ValidateUUID(id, "blacklist entry"); err != nil {
			return err
		}
		if seen[id] {
			return fmt.Errorf("blacklist entry %s is repeated", id)
		}
		seen[id] = true
	}
	return nil
}
