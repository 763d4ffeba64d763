package product

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	perrors "github.com/abgdnv/produtos/internal/errors"
	"github.com/go-playground/validator/v10"
)

// Field names as they travel on the wire and appear in validation errors.
const (
	FieldName        = "nome"
	FieldDescription = "descricao"
	FieldPrice       = "preco"
)

const (
	minNameLen        = 3
	minDescriptionLen = 5
)

// Messages shown for rejected fields.
const (
	MsgName        = "O nome deve ter pelo menos 3 caracteres"
	MsgDescription = "A descrição deve ter pelo menos 5 caracteres"
	MsgPrice       = "O preço deve ser um número válido"
)

var fieldMessages = map[string]string{
	FieldName:        MsgName,
	FieldDescription: MsgDescription,
	FieldPrice:       MsgPrice,
}

// Validator is the gate every draft passes before the remote store is called.
// A rejection is a *errors.ValidationError.
type Validator interface {
	Validate(d Draft) error
}

// Validation strategies selectable by configuration.
const (
	StrategySchema = "schema"
	StrategyField  = "field"
)

// NewValidator returns the validator for strategy. An empty strategy means schema.
func NewValidator(strategy string) (Validator, error) {
	switch strategy {
	case "", StrategySchema:
		return NewSchemaValidator(), nil
	case StrategyField:
		return FieldValidator{}, nil
	default:
		return nil, fmt.Errorf("unknown validation strategy: %q", strategy)
	}
}

// SchemaValidator checks a draft against the struct tags declared on Draft.
type SchemaValidator struct {
	validate *validator.Validate
}

// NewSchemaValidator builds a SchemaValidator with the preco rule registered.
func NewSchemaValidator() *SchemaValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their wire name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("preco", func(fl validator.FieldLevel) bool {
		return ValidPrice(fl.Field().String())
	})
	return &SchemaValidator{validate: v}
}

// Validate implements Validator.
func (s *SchemaValidator) Validate(d Draft) error {
	err := s.validate.Struct(d)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validating draft: %w", err)
	}
	verr := &perrors.ValidationError{}
	for _, fieldErr := range validationErrors {
		msg, ok := fieldMessages[fieldErr.Field()]
		if !ok {
			msg = "failed on rule: " + fieldErr.Tag()
		}
		verr.Fields = append(verr.Fields, perrors.FieldError{Field: fieldErr.Field(), Message: msg})
	}
	return verr
}

// FieldValidator checks a draft one field at a time.
type FieldValidator struct{}

// Validate implements Validator.
func (FieldValidator) Validate(d Draft) error {
	var fields []perrors.FieldError
	if utf8.RuneCountInString(d.Name) < minNameLen {
		fields = append(fields, perrors.FieldError{Field: FieldName, Message: MsgName})
	}
	if utf8.RuneCountInString(d.Description) < minDescriptionLen {
		fields = append(fields, perrors.FieldError{Field: FieldDescription, Message: MsgDescription})
	}
	if !ValidPrice(d.Price) {
		fields = append(fields, perrors.FieldError{Field: FieldPrice, Message: MsgPrice})
	}
	if len(fields) > 0 {
		return &perrors.ValidationError{Fields: fields}
	}
	return nil
}
